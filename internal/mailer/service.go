/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package mailer emails inspectors a summary when an allocation run lands on
// their calendar.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Planning-Inspectorate/inspector-programming-sub000/internal/events"
)

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Service subscribes to allocation events and sends summary mail.
type Service struct {
	config Config
	logger zerolog.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New constructs the mailer and wires it to the bus.
func New(cfg Config, bus *events.Bus, logger zerolog.Logger) *Service {
	s := &Service{config: cfg, logger: logger, send: smtp.SendMail}
	bus.Subscribe(events.EventAllocationCompleted, s.onAllocationCompleted)
	return s
}

func (s *Service) onAllocationCompleted(_ events.EventType, payload events.Payload) {
	if s.config.Host == "" {
		return
	}

	to, _ := payload["inspector_email"].(string)
	if to == "" {
		return
	}
	date, _ := payload["assignment_date"].(string)
	count, _ := payload["event_count"].(int)

	go func() {
		if err := s.sendSummary(to, date, count); err != nil {
			s.logger.Warn().Err(err).Str("to", to).Msg("allocation summary mail failed")
		}
	}()
}

func (s *Service) sendSummary(to, assignmentDate string, eventCount int) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.config.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: Case programme updated for %s\r\n", assignmentDate)
	msg.WriteString("\r\n")
	fmt.Fprintf(&msg, "%d calendar events have been added to your programme for the assignment dated %s.\r\n", eventCount, assignmentDate)

	return s.send(addr, auth, s.config.From, []string{to}, []byte(msg.String()))
}
