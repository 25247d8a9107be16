package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	Forbidden           failure.ErrorCode = "Forbidden"

	InvalidVehicle      failure.ErrorCode = "InvalidVehicle"
	InvalidStockNumber  failure.ErrorCode = "InvalidStockNumber"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"
	InvalidPolicy       failure.ErrorCode = "InvalidPolicy"
	VehicleNotFound     failure.ErrorCode = "VehicleNotFound"
	AllocationConflict  failure.ErrorCode = "AllocationConflict"
	DuplicateSubmission failure.ErrorCode = "DuplicateSubmission"
	LockNotObtained     failure.ErrorCode = "LockNotObtained"
)
