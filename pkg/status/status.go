// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"time"
)

// 📊 Outcome is what happened to one candidate file
type Outcome int

const (
	Succeeded         Outcome = iota // Output written in full
	SkippedUnreadable                // Source could not be read
	SkippedUnwritable                // Output could not be named, opened or written
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case SkippedUnreadable:
		return "skipped_unreadable"
	case SkippedUnwritable:
		return "skipped_unwritable"
	default:
		return "unknown"
	}
}

// 📄 Entry records the processing of one candidate
type Entry struct {
	Source    string  // Input path
	Output    string  // Resolved output path, empty if resolution failed
	Outcome   Outcome // Result of the read/write
	Size      int     // Bytes written
	Deleted   bool    // Whether the source was removed
	Err       error   // Read or write failure
	DeleteErr error   // Source removal failure; the write still stands
}

// 🔢 Counts summarizes a report
type Counts struct {
	Succeeded    int
	Unreadable   int
	Unwritable   int
	DeleteFailed int
}

// Total returns the number of candidates attempted
func (c Counts) Total() int {
	return c.Succeeded + c.Unreadable + c.Unwritable
}

// 📋 Report is the result of one processing pass
type Report struct {
	Started  time.Time
	Finished time.Time
	Entries  []Entry
}

// 🏭 NewReport starts an empty report
func NewReport(started time.Time) *Report {
	return &Report{
		Started: started,
		Entries: []Entry{},
	}
}

// Add appends an entry
func (r *Report) Add(e Entry) {
	r.Entries = append(r.Entries, e)
}

// Finish stamps the end of the pass
func (r *Report) Finish(t time.Time) {
	r.Finished = t
}

// Duration returns how long the pass took
func (r *Report) Duration() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// Empty reports whether no candidates were found
func (r *Report) Empty() bool {
	return len(r.Entries) == 0
}

// Counts tallies outcomes
func (r *Report) Counts() Counts {
	var c Counts
	for _, e := range r.Entries {
		switch e.Outcome {
		case Succeeded:
			c.Succeeded++
		case SkippedUnreadable:
			c.Unreadable++
		case SkippedUnwritable:
			c.Unwritable++
		}
		if e.DeleteErr != nil {
			c.DeleteFailed++
		}
	}
	return c
}

// Failed reports whether any file was skipped or could not be deleted
func (r *Report) Failed() bool {
	c := r.Counts()
	return c.Unreadable+c.Unwritable+c.DeleteFailed > 0
}
