package openai

import "errors"

var ErrEmptyCompletion = errors.New("empty completion from OpenAI API")
