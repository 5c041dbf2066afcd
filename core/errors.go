package core

import "errors"

var (
	ErrUnsupportedProtocol = errors.New("unsupported protocol")
	ErrConnectionLost      = errors.New("connection lost")
	ErrNotConnected        = errors.New("not connected")
	ErrNoIdentity          = errors.New("no stored user identity")
	ErrNoPairedDevice      = errors.New("no paired device")
	ErrSendRejected        = errors.New("send rejected")
)
