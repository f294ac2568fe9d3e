// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"github.com/apex/log"
)

// Kind is the severity of a Notice.
type Kind string

const (
	Info    Kind = "info"
	Success Kind = "success"
	Warning Kind = "warning"
	Error   Kind = "error"
)

// Notice is a user facing message about an operation's outcome.
type Notice struct {
	Kind    Kind
	Message string
}

// Notifier receives notices. It is called with the engine lock held and
// must not call back into the engine.
type Notifier func(Notice)

// LogNotifier sends notices to the log.
func LogNotifier(n Notice) {
	switch n.Kind {
	case Error:
		log.Error(n.Message)
	case Warning:
		log.Warn(n.Message)
	default:
		log.Info(n.Message)
	}
}

// Notices collects notices in order. It is handy where the caller wants to
// present them after the fact.
type Notices struct {
	List []Notice
}

// Notify appends n.
func (c *Notices) Notify(n Notice) {
	c.List = append(c.List, n)
}

// Last returns the most recent notice.
func (c *Notices) Last() (Notice, bool) {
	if len(c.List) == 0 {
		return Notice{}, false
	}
	return c.List[len(c.List)-1], true
}
