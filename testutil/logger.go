package testutil

import (
	"sync"

	"github.com/anjiri1684/quiz_connect/logger"
)

// Entry is one recorded log call.
type Entry struct {
	Level  string
	Msg    string
	Fields map[string]interface{}
	Person *logger.Person
}

// Recorder keeps every entry it is given.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

var _ logger.Logger = (*Recorder)(nil)

func (r *Recorder) record(level, msg string, args []interface{}) {
	e := Entry{Level: level, Msg: msg}
	for _, arg := range args {
		switch v := arg.(type) {
		case map[string]interface{}:
			e.Fields = v
		case logger.Person:
			p := v
			e.Person = &p
		}
	}
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
}

func (r *Recorder) Info(msg string, args ...interface{})  { r.record("INFO", msg, args) }
func (r *Recorder) Warn(msg string, args ...interface{})  { r.record("WARN", msg, args) }
func (r *Recorder) Error(msg string, args ...interface{}) { r.record("ERROR", msg, args) }

// Find returns the last entry logged with msg.
func (r *Recorder) Find(msg string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].Msg == msg {
			return r.entries[i], true
		}
	}
	return Entry{}, false
}
