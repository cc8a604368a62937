package wayfind

import (
	"go.uber.org/zap"
)

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogNotFound(method, path string) {
	l.Logger.Info("no route matched",
		zap.String("method", method), zap.String("path", path))
}

func (l zapLogger) LogHandlerFault(err error) {
	l.Logger.Error("handler fault", zap.Error(err))
}

func (l zapLogger) LogHookFault(err error) {
	l.Logger.Error("hook fault, falling back to built-in response", zap.Error(err))
}

// NewZapLogger adapts a zap logger to the [Logger] collaborator.
func NewZapLogger(l *zap.Logger) Logger {
	return zapLogger{l.Named("wayfind")}
}
