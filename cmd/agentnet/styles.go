// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package main

import "github.com/charmbracelet/lipgloss"

const (
	okMark   = "✓"
	failMark = "✗"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)
