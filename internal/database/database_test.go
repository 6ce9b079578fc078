package database

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	appconfig "github.com/GTDGit/grocery_api/internal/config"
)

func TestDSN(t *testing.T) {
	c := qt.New(t)

	dsn := DSN(&appconfig.DatabaseConfig{
		Host: "db", Port: "5432", User: "grocer", Password: "p@ss word", Name: "grocery", SSLMode: "disable",
	})
	c.Assert(dsn, qt.Equals, "postgres://grocer:p%40ss%20word@db:5432/grocery?sslmode=disable")
}

func TestConnectNilConfig(t *testing.T) {
	c := qt.New(t)

	_, err := Connect(context.Background(), nil)
	c.Assert(err, qt.ErrorMatches, "nil database config")
}

func TestSleepWithBackoffHonoursContext(t *testing.T) {
	c := qt.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := sleepWithBackoff(ctx, 5, time.Second)
	c.Assert(err, qt.Equals, context.Canceled)
	c.Assert(time.Since(start) < time.Second, qt.IsTrue)
}
