// Package condiloader is the item orchestrator: it loads the stylesheets and
// scripts of declarative items, but only for items whose condition holds on
// the current document.
//
// # Items
//
// An Item names an optional condition (CSS selectors and/or XPath
// expressions, all of which must match at least one element), ordered
// stylesheet and script URLs, an optional OnReady callback and an optional
// event name. Items are usually decoded from a Manifest:
//
//	items:
//	  - name: gallery
//	    sel: "#gallery"
//	    css: gallery.css
//	    js: [lightbox.js, gallery.js]
//	    event: gallery-ready
//
// Scalar and list forms are both accepted for sel, xpath, css and js.
//
// # Processing
//
// Every item runs in its own goroutine. Within an item the stylesheets load
// first, in order, then the scripts, in order; each load starts only after the
// previous one succeeded. Script loads go through a core/registry Registry so
// two items asking for the same script share one load. When every load of an
// item succeeded, OnReady is called and the item's event is dispatched on the
// document. A failed load is logged against the item's name and affects no
// other item.
//
// # Usage
//
//	ldr, err := condiloader.New(doc, manifest.Items, cfg, condiloader.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	ldr.Start(ctx)
//	doc.ContentLoaded()
//	err = ldr.Wait(ctx)
package condiloader
