package llm

import (
	"fmt"

	"github.com/aschepis/llmrelay/text"
)

// Structural prompt constructors. These wrap prompts that have proven reliable
// for driving a model to answer in a machine-minable shape (see the text
// package for the matching list miners).

// NewItemFromListRequest builds a request that asks the model to match a user
// response against a numbered list and return the matching list entry, or "No".
func NewItemFromListRequest(list []string, item string) *Request {
	prompt := fmt.Sprintf(`Be sure to follow my request exactly.
Below is a list of items and a user response.
Your goal is to return an item from the list if the response mentions it otherwise say No.
Be sure to return the name of the matching item. Do not say 'Yes' and
do not return the user response: return the list entry.
List:
%s
Response: %s`, text.ToNumericList(list), item)

	return NewRequest(prompt, "")
}

// NewCategorizeTextRequest builds a request that asks the model to classify
// text as one of the given categories and answer with the matching letter
// only. An alphabetic list is used here: models answer it more reliably than
// a numeric one for classification.
func NewCategorizeTextRequest(categories []string, subject string) *Request {
	prompt := fmt.Sprintf(`Characterize the following text as one of the following. Return the matching letter only.
%s
Text: %s`, text.ToAlphabeticList(categories), subject)

	return NewRequest(prompt, "")
}
