package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add        func(AddArgs) (Result, error)
	Done       func(TargetArgs) (Result, error)
	Delete     func(TargetArgs) (Result, error)
	Due        func(DueArgs) (Result, error)
	Priority   func(PriorityArgs) (Result, error)
	Reschedule func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "done handler not configured"}
		}
		return handlers.Done(*cmd.Done)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "delete handler not configured"}
		}
		return handlers.Delete(*cmd.Delete)
	case TypeDue:
		if handlers.Due == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "due handler not configured"}
		}
		return handlers.Due(*cmd.Due)
	case TypePriority:
		if handlers.Priority == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "pri handler not configured"}
		}
		return handlers.Priority(*cmd.Priority)
	case TypeReschedule:
		if handlers.Reschedule == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "reschedule handler not configured"}
		}
		return handlers.Reschedule()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
