// Package state provides per-chat sessions and a step-based flow engine
// for Telegram bots. A flow is a chain of explicit steps: each step
// handler consumes one reply, validates it, and either arms the next
// step or leaves the chat idle. It is intentionally domain-agnostic so
// it can be reused across bots.
package state
