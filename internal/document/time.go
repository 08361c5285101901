package document

import "time"

// timeFormat is the wire format for all persisted timestamps.
const timeFormat = time.RFC3339

// timeNow is a package-level variable for testability.
// Tests can replace this to control time in assertions.
var timeNow = time.Now
