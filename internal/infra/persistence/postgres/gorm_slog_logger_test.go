package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"account/config"
	deliverycontext "account/internal/delivery/context"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func sqlFn() (string, int64) {
	return `SELECT * FROM "users" WHERE email = 'a@b.co'`, 1
}

func TestGormSlogLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		debug   bool
		begin   time.Time
		err     error
		want    string
		wantNot string
	}{
		{name: "query failure", begin: time.Now(), err: errors.New("connection reset"), want: "GORM query failed"},
		{name: "record not found ignored", begin: time.Now(), err: gorm.ErrRecordNotFound, wantNot: "GORM"},
		{name: "slow query", begin: time.Now().Add(-time.Second), want: "GORM slow query"},
		{name: "fast query hidden outside debug", begin: time.Now(), wantNot: "GORM"},
		{name: "fast query shown in debug", debug: true, begin: time.Now(), want: "GORM query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := &config.Config{}
			cfg.Env.Debug = tt.debug

			l := newGormSlogLogger(newBufferLogger(&buf), cfg)
			l.Trace(context.Background(), tt.begin, sqlFn, tt.err)

			if tt.want != "" {
				assert.Contains(t, buf.String(), tt.want)
			}
			if tt.wantNot != "" {
				assert.NotContains(t, buf.String(), tt.wantNot)
			}
		})
	}
}

func TestGormSlogLogger_UsesRequestScopedLogger(t *testing.T) {
	var base, scoped bytes.Buffer
	l := newGormSlogLogger(newBufferLogger(&base), &config.Config{})

	ctx := deliverycontext.WithLogger(context.Background(),
		newBufferLogger(&scoped).With(slog.String("request_id", "req-1")))
	l.Trace(ctx, time.Now(), sqlFn, errors.New("boom"))

	assert.Empty(t, base.String())
	assert.Contains(t, scoped.String(), "request_id=req-1")
	assert.Contains(t, scoped.String(), "GORM query failed")
}

func TestGormSlogLogger_LogModeSilent(t *testing.T) {
	var buf bytes.Buffer
	l := newGormSlogLogger(newBufferLogger(&buf), &config.Config{}).LogMode(logger.Silent)

	l.Trace(context.Background(), time.Now(), sqlFn, errors.New("boom"))
	l.Error(context.Background(), "failed: %s", "boom")

	assert.Empty(t, buf.String())
}
