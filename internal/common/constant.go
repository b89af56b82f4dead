package common

// AccessTokenHeaderName is the gRPC metadata key carrying the device token
// on mirror requests.
const AccessTokenHeaderName = "access_token"

// DayLayout is the serialized form of a normalized calendar day.
const DayLayout = "2006-01-02"
