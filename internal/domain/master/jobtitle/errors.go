package jobtitle

import "errors"

var (
	ErrJobTitleNotFound = errors.New("job title not found")
)
