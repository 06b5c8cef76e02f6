// Package errors provides coded errors for toastd.
//
// Every error has a code (e.g. "T001") that maps to a category, a short
// message, a detail line and the HTTP status the host responds with:
//
//	T001  unknown toast           404
//	T002  invalid position        400
//	T003  invalid interaction     400
//	T004  invalid request body    400
//	T005  validation failed       422
//	T006  config load failed      500
//	T007  config invalid          500
//	T008  service unavailable     503
//
// # Usage
//
//	err := errors.New(errors.CodeUnknownToast).WithField("id")
//	if stderrors.Is(err, errors.ErrUnknownToast) { ... }
//
//	fmt.Println(err.Format())     // terminal
//	fmt.Println(err.FormatJSON()) // HTTP body
package errors
