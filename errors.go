package cslpq

import "errors"

// ErrInvalidMaxLevel is returned by TryNew/TryNewKV when Options.MaxLevel
// is 0. New/NewKV panic on the same condition instead, mirroring the split
// the teacher draws between a literal, programmer-controlled call site
// (panic, like an invalid literal passed to Open) and a config-driven path
// that must return an error instead of crashing the process (see
// internal/dbformat's sentinel-error convention, checked with errors.Is).
var ErrInvalidMaxLevel = errors.New("cslpq: MaxLevel must be >= 1")
