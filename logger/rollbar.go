package logger

import (
	"context"
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
)

type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Person identifies the account an entry is about.
type Person struct {
	ID       string
	Username string
	Email    string
}

type RollbarLogger struct {
	std *log.Logger
}

var _ Logger = (*RollbarLogger)(nil)

// NewRollbarLogger reports to Rollbar only when a token is given; entries always reach std.
func NewRollbarLogger(std *log.Logger, token, env, host string) *RollbarLogger {
	rollbar.SetToken(token)
	rollbar.SetEnvironment(env)
	rollbar.SetServerHost(host)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(token != "")
	return &RollbarLogger{std: std}
}

// expected fmt: msg | error, map[string]interface{}, Person
// The person rides on a per-entry context so concurrent entries never share it.
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var personSet bool
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		if p, ok := arg.(Person); ok {
			if !personSet {
				newArgs = append(newArgs, rollbar.NewPersonContext(context.Background(), &rollbar.Person{
					Id:       p.ID,
					Username: p.Username,
					Email:    p.Email,
				}))
				personSet = true
			}
		} else {
			newArgs = append(newArgs, arg)
		}
	}
	return newArgs
}

func (l RollbarLogger) print(level, msg string, args []interface{}) {
	if len(args) == 0 {
		l.std.Printf("[%s] %s", level, msg)
		return
	}
	l.std.Printf("[%s] %s %+v", level, msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print("INFO", msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print("WARN", msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print("ERROR", msg, args)
}

// Close flushes pending Rollbar items.
func (l RollbarLogger) Close() {
	rollbar.Close()
}
