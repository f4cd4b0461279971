package main

import "time"

type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt
	ModeConfirm
)

type PromptKind int

const (
	PromptGoto PromptKind = iota
	PromptAddPanel
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmRemovePanel
)

const (
	// wheelDelta is the DeltaY reported per wheel notch, matching a browser
	// wheel line so the configured zoom speed behaves the same.
	wheelDelta = 100

	panStep       = 2
	panStepFast   = 6
	frameInterval = time.Second / 60
	storeTimeout  = 2 * time.Second

	// Hub panel rows before the first port line: border and title.
	hubHeaderRows = 2
)
