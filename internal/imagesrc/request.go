package imagesrc

import "image"

// Ticket orders load requests. Later requests carry larger tickets.
type Ticket uint64

// Result is posted when a load finishes.
type Result struct {
	Ticket Ticket
	Source string
	Bitmap *image.RGBA
	Err    error
}

// LoadFunc performs one load.
type LoadFunc func() (*image.RGBA, error)

// Requester runs loads in the background and hands each Result to Post.
// Post is called from the loading goroutine; UI callers forward the result
// to their event loop.
type Requester struct {
	Post func(Result)
}

// Run starts load under ticket t.
func (r *Requester) Run(t Ticket, source string, load LoadFunc) {
	go func() {
		img, err := load()
		if r.Post != nil {
			r.Post(Result{Ticket: t, Source: source, Bitmap: img, Err: err})
		}
	}()
}
