package main

import (
	"io"
	"net/http"
	"sync"
	"time"
)

// Result is the outcome of one load request.
type Result struct {
	ID      int
	Status  int
	Body    string
	Elapsed time.Duration
	Err     error
}

func (r Result) OK() bool {
	return r.Err == nil && r.Status == http.StatusOK
}

func fire(client *http.Client, target string, id int) Result {
	start := time.Now()
	res := Result{ID: id}
	resp, err := client.Get(target)
	if err != nil {
		res.Err = err
		res.Elapsed = time.Since(start)
		return res
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	res.Status = resp.StatusCode
	res.Body = string(body)
	res.Err = err
	res.Elapsed = time.Since(start)
	return res
}

// run fires n requests at once and returns their results in id order.
func run(client *http.Client, target string, n int) []Result {
	results := make([]Result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			results[id] = fire(client, target, id)
		}(i)
	}
	wg.Wait()
	return results
}
