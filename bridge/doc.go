// Package bridge keeps a host's declarative content and selection in sync
// with a live editor.
//
// The host writes properties (content, selection, placeholder, theme,
// formats, read-only) on an Element in any order, before or after Attach.
// Property writes reach the editor as silent mutations, which never produce
// change events. User mutations are coalesced: the first one in a turn
// schedules a deferred flush, and the flush reads the editor's live content
// and selection and emits a single ChangeEvent.
package bridge
