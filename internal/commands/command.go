package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd        Type = "add"
	TypeDone       Type = "done"
	TypeDelete     Type = "delete"
	TypeDue        Type = "due"
	TypePriority   Type = "pri"
	TypeReschedule Type = "reschedule"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Title string
}

type TargetArgs struct {
	Target string
}

type DueArgs struct {
	Target string
	When   string
}

type PriorityArgs struct {
	Target   string
	Priority int
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Done     *TargetArgs
	Delete   *TargetArgs
	Due      *DueArgs
	Priority *PriorityArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseTarget(input, TypeDone, args)
	case TypeDelete:
		return parseTarget(input, TypeDelete, args)
	case TypeDue:
		return parseDue(input, args)
	case TypePriority:
		return parsePriority(input, args)
	case TypeReschedule:
		return Command{Type: TypeReschedule, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a task id", typ)}
	}
	target := TargetArgs{Target: args[0]}
	cmd := Command{Type: typ, Raw: raw}
	switch typ {
	case TypeDone:
		cmd.Done = &target
	case TypeDelete:
		cmd.Delete = &target
	}
	return cmd, nil
}

func parseDue(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "due requires a task id and a time"}
	}
	return Command{Type: TypeDue, Raw: raw, Due: &DueArgs{Target: args[0], When: strings.Join(args[1:], " ")}}, nil
}

func parsePriority(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "pri requires a task id and a priority"}
	}
	p, err := strconv.Atoi(args[1])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("priority must be a number, got %q", args[1])}
	}
	return Command{Type: TypePriority, Raw: raw, Priority: &PriorityArgs{Target: args[0], Priority: p}}, nil
}
