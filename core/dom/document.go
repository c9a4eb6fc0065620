package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"github.com/joeycumines/go-eventloop"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Lifecycle event names dispatched by Document.
const (
	EventContentLoaded = "DOMContentLoaded"
	EventLoad          = "load"
)

// ReadyState mirrors document.readyState.
type ReadyState int

const (
	// Loading means the structural content is still being parsed.
	Loading ReadyState = iota
	// Interactive means the structural content is parsed and DOMContentLoaded fired.
	Interactive
	// Complete means the page finished loading.
	Complete
)

func (s ReadyState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Interactive:
		return "interactive"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("ReadyState(%d)", int(s))
	}
}

// Element is a detached snapshot of an element node.
type Element struct {
	Tag   string            `json:"tag"`
	Attrs map[string]string `json:"attrs"`
}

// Attr returns the value of the named attribute, or "".
func (e Element) Attr(key string) string {
	return e.Attrs[key]
}

// Document is a parsed HTML page.
type Document struct {
	mu    sync.RWMutex
	root  *html.Node
	head  *html.Node
	state ReadyState

	events *eventloop.EventTarget
}

// Parse reads an HTML document. The returned document is in the Loading state.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	head := htmlquery.FindOne(root, "//head")
	if head == nil {
		// html.Parse always synthesizes <head>, this only guards hand-built trees
		return nil, fmt.Errorf("failed to parse document: no head element")
	}

	return &Document{
		root:   root,
		head:   head,
		state:  Loading,
		events: eventloop.NewEventTarget(),
	}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ReadyState returns the current lifecycle state.
func (d *Document) ReadyState() ReadyState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// ContentLoaded moves the document to Interactive and dispatches
// DOMContentLoaded. Calls after the first are no-ops.
func (d *Document) ContentLoaded() {
	if !d.advance(Interactive) {
		return
	}
	d.DispatchEvent(EventContentLoaded)
}

// Complete moves the document to Complete, dispatching DOMContentLoaded first
// if it was never announced, then "load".
func (d *Document) Complete() {
	d.ContentLoaded()
	if !d.advance(Complete) {
		return
	}
	d.DispatchEvent(EventLoad)
}

func (d *Document) advance(to ReadyState) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state >= to {
		return false
	}
	d.state = to
	return true
}

// Events returns the document-level event target.
func (d *Document) Events() *eventloop.EventTarget {
	return d.events
}

// AddEventListener registers a listener on the document event target.
func (d *Document) AddEventListener(eventType string, listener eventloop.EventListenerFunc) eventloop.ListenerID {
	return d.events.AddEventListener(eventType, listener)
}

// DispatchEvent dispatches a zero-payload custom event named eventType on
// the document. Listener panics propagate to the caller.
func (d *Document) DispatchEvent(eventType string) {
	d.events.DispatchEvent(eventloop.NewCustomEvent(eventType, nil).EventPtr())
}

// QuerySelectorAll returns every element matching the CSS selector.
func (d *Document) QuerySelectorAll(selector string) ([]*html.Node, error) {
	sel, err := CompileSelector(selector)
	if err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	return sel.MatchAll(d.root), nil
}

// QueryXPath returns every element matching the XPath expression. Text and
// attribute results, and expressions that evaluate to a scalar, match nothing.
func (d *Document) QueryXPath(expr string) ([]*html.Node, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var nodes []*html.Node
	it := compiled.Select(htmlquery.CreateXPathNavigator(d.root))
	for it.MoveNext() {
		// htmlquery turns attributes into synthetic element nodes, so the
		// navigator type is the only reliable test
		nav, ok := it.Current().(*htmlquery.NodeNavigator)
		if !ok || nav.NodeType() != xpath.ElementNode {
			continue
		}
		nodes = append(nodes, nav.Current())
	}
	return nodes, nil
}

// CompileSelector compiles a CSS selector.
func CompileSelector(selector string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return sel, nil
}

// CreateElement returns a new detached element node.
func (d *Document) CreateElement(tag string, attrs ...html.Attribute) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// AppendToHead inserts n as the last child of <head>.
func (d *Document) AppendToHead(n *html.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.head.AppendChild(n)
}

// SetAttribute sets (or adds) an attribute on a node owned by the document.
func (d *Document) SetAttribute(n *html.Node, key, val string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// HeadElements snapshots the element children of <head> in document order.
func (d *Document) HeadElements() []Element {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []Element
	for c := d.head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		el := Element{Tag: c.Data, Attrs: make(map[string]string, len(c.Attr))}
		for _, a := range c.Attr {
			el.Attrs[a.Key] = a.Val
		}
		out = append(out, el)
	}
	return out
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return html.Render(w, d.root)
}

// String renders the document, returning "" if rendering fails.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}
