package main

import (
	"context"
	"net"
	"sync"
)

// Outcome is reported to the collector after every connection.
type Outcome struct {
	Worker int
	Client string
	Err    error
}

// Worker is one of the fixed pool of goroutines draining the accept queue.
type Worker struct {
	id       int
	srv      *Server
	conns    <-chan net.Conn
	outcomes chan<- Outcome
}

func NewWorker(id int, srv *Server, conns <-chan net.Conn, outcomes chan<- Outcome) *Worker {
	return &Worker{
		id:       id,
		srv:      srv,
		conns:    conns,
		outcomes: outcomes,
	}
}

// Start serves queued connections until the queue is closed. A connection
// is handled entirely by one worker and never holds up the others.
func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup) {
	go func() {
		defer wg.Done()
		for conn := range w.conns {
			client := remoteAddr(conn)
			err := w.srv.serveConn(ctx, w.id, conn)
			w.outcomes <- Outcome{w.id, client, err}
		}
	}()
}
