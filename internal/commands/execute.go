package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Category func(CategoryArgs) (Result, error)
	Sub      func(SubArgs) (Result, error)
	Search   func(SearchArgs) (Result, error)
	Day      func(DayArgs) (Result, error)
	Export   func(ExportArgs) (Result, error)
	Toggle   func(ToggleArgs) (Result, error)
	Filter   func(FilterArgs) (Result, error)
	Step     func(StepArgs) (Result, error)
	Edit     func(EditArgs) (Result, error)
	SubEdit  func(SubEditArgs) (Result, error)
	Rename   func(RenameArgs) (Result, error)
	StepAdd  func(StepAddArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		return dispatch(handlers.Add, cmd.Add, cmd.Type)
	case TypeCategory:
		return dispatch(handlers.Category, cmd.Category, cmd.Type)
	case TypeSub:
		return dispatch(handlers.Sub, cmd.Sub, cmd.Type)
	case TypeSearch:
		return dispatch(handlers.Search, cmd.Search, cmd.Type)
	case TypeDay:
		return dispatch(handlers.Day, cmd.Day, cmd.Type)
	case TypeExport:
		return dispatch(handlers.Export, cmd.Export, cmd.Type)
	case TypeToggle:
		return dispatch(handlers.Toggle, cmd.Toggle, cmd.Type)
	case TypeFilter:
		return dispatch(handlers.Filter, cmd.Filter, cmd.Type)
	case TypeStep:
		return dispatch(handlers.Step, cmd.Step, cmd.Type)
	case TypeEdit:
		return dispatch(handlers.Edit, cmd.Edit, cmd.Type)
	case TypeSubEdit:
		return dispatch(handlers.SubEdit, cmd.SubEdit, cmd.Type)
	case TypeRename:
		return dispatch(handlers.Rename, cmd.Rename, cmd.Type)
	case TypeStepAdd:
		return dispatch(handlers.StepAdd, cmd.StepAdd, cmd.Type)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func dispatch[A any](handler func(A) (Result, error), args *A, typ Type) (Result, error) {
	if handler == nil {
		return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", typ)}
	}
	if args == nil {
		return Result{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s command has no arguments", typ)}
	}
	return handler(*args)
}
