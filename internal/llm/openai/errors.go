package openai

import "errors"

var errNoChoices = errors.New("openai provider: response contained no choices")
