// Package speechgen defines the option surface shared by speech-generation
// backends. A backend turns a window of world events into one spoken line
// attributed to a speaker, delivered through a continuation.
package speechgen

type GenerationOptions struct {
	// LineCallback is called once when the backend has produced a line.
	LineCallback func(speakerID, line string)
	// ErrorCallback is called when the asynchronous part of generation
	// fails; the continuation will not fire afterwards.
	ErrorCallback func(err error)
}

type GenerationOption func(*GenerationOptions)

func WithLineCallback(callback func(speakerID, line string)) GenerationOption {
	return func(o *GenerationOptions) {
		o.LineCallback = callback
	}
}

func WithErrorCallback(callback func(err error)) GenerationOption {
	return func(o *GenerationOptions) {
		o.ErrorCallback = callback
	}
}
