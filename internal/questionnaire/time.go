package questionnaire

import "time"

// timeNow is the clock used for age checks. Tests replace it.
var timeNow = time.Now
