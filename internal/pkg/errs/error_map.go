/*
Package errs provides custom error types and application-level error code constants.

This file maps each error code to its CustomError template, standardizing the
client message and the HTTP status used by the admin API.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams: {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},

	// 2xxx: Room Business Logic Errors
	ErrRoomNotFound: {Code: ErrRoomNotFound, Message: "Room not found.", Status: http.StatusNotFound},

	// 3xxx: User and Session Errors
	ErrNameTaken: {Code: ErrNameTaken, Message: "Username '%s' is already taken."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
