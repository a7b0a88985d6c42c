// Package translate turns Markdown documents into another language via a
// chat-completion model, with every model call routed through the resilience
// dispatcher for the model API.
package translate
