package xcontext

import (
	"context"

	"github.com/catchcard/backend/config"
	"github.com/catchcard/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey struct{}
	loggerKey  struct{}
	dbKey      struct{}
	txKey      struct{}
	userIDKey  struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	return ctx.Value(configsKey{}).(config.Configs)
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	return ctx.Value(loggerKey{}).(logger.Logger)
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the transaction begun by WithDBTransaction if there is an
// unfinished one on this context, otherwise the root database handle.
func DB(ctx context.Context) *gorm.DB {
	if t, ok := ctx.Value(txKey{}).(*transaction); ok && !t.done {
		return t.tx
	}

	return ctx.Value(dbKey{}).(*gorm.DB)
}

type transaction struct {
	tx   *gorm.DB
	done bool
}

// WithDBTransaction replaces the returned value of DB() by a database
// transaction until the transaction is committed or rollbacked.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, &transaction{tx: DB(ctx).Begin()})
}

// WithCommitDBTransaction commits the current transaction if any. It is safe
// to call WithRollbackDBTransaction afterwards, usually via defer.
func WithCommitDBTransaction(ctx context.Context) context.Context {
	if t, ok := ctx.Value(txKey{}).(*transaction); ok && !t.done {
		t.tx.Commit()
		t.done = true
	}

	return ctx
}

// WithRollbackDBTransaction rollbacks the current transaction if it has not
// finished yet.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	if t, ok := ctx.Value(txKey{}).(*transaction); ok && !t.done {
		t.tx.Rollback()
		t.done = true
	}

	return ctx
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}

	return ""
}
