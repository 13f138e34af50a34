package nnindex

import "errors"

var errAlpha = errors.New("nnindex: alpha must be > 0")
