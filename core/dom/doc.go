// Package dom provides the in-memory document the loader works against.
//
// A Document wraps a parsed golang.org/x/net/html tree and exposes the small
// surface the loader needs from a browser page:
//
//   - Condition queries: QuerySelectorAll (CSS selectors via cascadia) and
//     QueryXPath (XPath via htmlquery).
//   - Node insertion: CreateElement and AppendToHead, used to record every
//     stylesheet and script load the loader triggers.
//   - Lifecycle: a ReadyState that moves Loading -> Interactive -> Complete,
//     announcing "DOMContentLoaded" and "load" on the document's EventTarget.
//   - Notifications: an eventloop.EventTarget (github.com/joeycumines/go-eventloop)
//     carrying zero-payload custom events.
//
// All methods are safe for concurrent use. Reads take a shared lock, tree
// mutations take the exclusive lock.
//
// # Usage
//
//	doc, err := dom.ParseString(page)
//	if err != nil {
//	    return err
//	}
//	doc.AddEventListener("widget-ready", func(e *eventloop.Event) { ... })
//	doc.ContentLoaded()
package dom
