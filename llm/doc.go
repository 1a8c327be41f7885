// Package llm provides the provider-neutral request/response contract shared by
// every protocol family in this module.
//
// This package defines common types and interfaces that allow the dispatch and
// chunking layers to work with multiple LLM wire protocols (chat-completions,
// responses, single-shot completion, embeddings) without being coupled to any
// specific provider's payload shapes.
//
// # Core Concepts
//
//  1. Request: the caller's logical request (text, model, system prompt,
//     temperature, max tokens, provider-specific options) together with its
//     result slot. A Request is Processed once a Result or Error has been set,
//     and Utterance() is only valid after that.
//
//  2. Adapter Interface: an Adapter encodes a Request into a provider wire
//     payload and decodes a raw provider body back into a Result or a typed
//     error. One adapter exists per protocol family; see the chat, responses,
//     completion, and embedding subpackages.
//
//  3. Errors: the Error type provides uniform error handling across families.
//     Provider error envelopes, transport failures, malformed bodies, and
//     lifetime timeouts each map to a distinct ErrorType, and only transport
//     failures are retryable.
//
// # Extension Points
//
// To add a new protocol family:
//  1. Implement the Adapter interface (and StreamAdapter if the family streams)
//  2. Decode into explicit wire structs; never access fields before checking
//     the error envelope
//  3. Translate failures into *llm.Error values with the right ErrorType
package llm
