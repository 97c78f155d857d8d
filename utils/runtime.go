// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package utils

import (
	"runtime"
	"strings"
)

// GetGoRoutineID parses the id of the calling goroutine out of its stack header
func GetGoRoutineID() string {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return strings.Fields(strings.TrimPrefix(string(buf[:n]), "goroutine "))[0]
}

// getFrame returns the frame skipFrames levels above its caller
func getFrame(skipFrames int) runtime.Frame {
	targetFrameIdx := skipFrames + 2
	programCounters := make([]uintptr, targetFrameIdx+2)
	n := runtime.Callers(0, programCounters)
	frame := runtime.Frame{Function: "unknown"}
	if n == 0 {
		return frame
	}

	frames := runtime.CallersFrames(programCounters[:n])
	for more, frameIdx := true, 0; more && frameIdx <= targetFrameIdx; frameIdx++ {
		var candidate runtime.Frame
		candidate, more = frames.Next()
		if frameIdx == targetFrameIdx {
			frame = candidate
			break
		}
	}
	return frame
}
