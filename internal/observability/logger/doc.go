// Package logger expone un logger zap global con scoping por contexto.
//
// Init se llama una sola vez desde main; el middleware de logging inyecta en
// cada request un logger con request_id, method y path que se recupera con
// From(ctx). Sin logger en el contexto, From cae al singleton.
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
//	log := logger.From(ctx).With(logger.Component("session"))
//	log.Info("login ok", logger.EntityKind("RIDER"))
//
// Nunca se loguean tokens ni passwords: para correlacionar un token se usa
// TokenFingerprint.
package logger
