package services

import "github.com/go-kratos/kratos/v2/errors"

// 错误原因码，出现在 kratos 错误体的 reason 字段。
const (
	ReasonPersonNotFound     = "PERSON_NOT_FOUND"
	ReasonPersonIDInvalid    = "PERSON_ID_INVALID"
	ReasonPersonPayload      = "PERSON_PAYLOAD_INVALID"
	ReasonPersonStoreFailed  = "PERSON_STORE_FAILED"
	ReasonPersonStoreTimeout = "PERSON_STORE_TIMEOUT"
)

var (
	// ErrPersonNotFound 表示目标人员不存在。
	ErrPersonNotFound = errors.NotFound(ReasonPersonNotFound, "person not found")
	// ErrPersonIDInvalid 表示路径中的标识不是合法的 ObjectID。
	ErrPersonIDInvalid = errors.BadRequest(ReasonPersonIDInvalid, "person id must be a 24-character hex string")
)

// ErrPayloadInvalid 构造请求体校验失败的错误。
func ErrPayloadInvalid(message string) *errors.Error {
	return errors.BadRequest(ReasonPersonPayload, message)
}
