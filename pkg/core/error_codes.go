package core

import "errors"

// Bybit v5 return codes that the classifier knows about. Anything not listed
// here classifies as ErrorTypeUnknown.
const (
	RetCodeOK                    uint64 = 0
	RetCodeParamsError           uint64 = 10001
	RetCodeRecvWindowExceeded    uint64 = 10002
	RetCodeInvalidAPIKey         uint64 = 10003
	RetCodeSignatureError        uint64 = 10004
	RetCodePermissionDenied      uint64 = 10005
	RetCodeTooManyVisits         uint64 = 10006
	RetCodeUnmatchedIP           uint64 = 10010
	RetCodeServerError           uint64 = 10016
	RetCodeIPRateLimit           uint64 = 10018
	RetCodeOrderNotExists        uint64 = 110001
	RetCodePriceOutOfRange       uint64 = 110003
	RetCodeWalletInsufficient    uint64 = 110004
	RetCodeAvailableInsufficient uint64 = 110007
	RetCodeReduceOnlyRejected    uint64 = 110017
	RetCodeQtyInvalid            uint64 = 110020
	RetCodeSpotInsufficient      uint64 = 170131
	RetCodeSpotOrderNotExists    uint64 = 170213
)

var retCodeTypes = map[uint64]ErrorType{
	RetCodeParamsError:           ErrorTypeBadRequest,
	RetCodeRecvWindowExceeded:    ErrorTypeTimeout,
	RetCodeInvalidAPIKey:         ErrorTypeAuthentication,
	RetCodeSignatureError:        ErrorTypeAuthentication,
	RetCodePermissionDenied:      ErrorTypeAuthentication,
	RetCodeTooManyVisits:         ErrorTypeRateLimit,
	RetCodeUnmatchedIP:           ErrorTypeAuthentication,
	RetCodeServerError:           ErrorTypeServerError,
	RetCodeIPRateLimit:           ErrorTypeRateLimit,
	RetCodeOrderNotExists:        ErrorTypeNotFound,
	RetCodePriceOutOfRange:       ErrorTypeInvalidOrder,
	RetCodeWalletInsufficient:    ErrorTypeInsufficientFunds,
	RetCodeAvailableInsufficient: ErrorTypeInsufficientFunds,
	RetCodeReduceOnlyRejected:    ErrorTypeInvalidOrder,
	RetCodeQtyInvalid:            ErrorTypeInvalidOrder,
	RetCodeSpotInsufficient:      ErrorTypeInsufficientFunds,
	RetCodeSpotOrderNotExists:    ErrorTypeNotFound,
}

// ClassifyRetCode maps a venue return code onto an ErrorType.
func ClassifyRetCode(code uint64) ErrorType {
	if t, ok := retCodeTypes[code]; ok {
		return t
	}
	return ErrorTypeUnknown
}

// IsRetCode checks if err is an APIError carrying code.
func IsRetCode(err error, code uint64) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
