package qudit

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const timeoutMsg = "Test timed out waiting for the lane"

func TestWorker(t *testing.T) {
	Convey("Given a worker", t, func() {
		ctx, cancel := context.WithCancel(context.Background())

		pool := &Pool{
			ctx:     ctx,
			workers: make(chan chan Job, 1),
			metrics: newMetrics(1),
		}

		worker := &Worker{
			id:   0,
			pool: pool,
			jobs: make(chan Job),
		}

		exited := make(chan error, 1)
		go func() {
			exited <- worker.run(ctx)
		}()

		Reset(func() {
			cancel()
			<-exited
		})

		Convey("It should run the range it is handed and record it", func() {
			done := make(chan struct{}, 1)
			out := make([]int, 8)

			lane := <-pool.workers
			lane <- Job{
				ID:     "fill-0",
				Kernel: "fill",
				Lo:     2,
				Hi:     6,
				Fn: func(lo, hi int) {
					for i := lo; i < hi; i++ {
						out[i] = i
					}
				},
				StartTime: time.Now(),
				done:      done,
			}

			select {
			case <-time.After(2 * time.Second):
				t.Fatal(timeoutMsg)
			case <-done:
			}

			So(out, ShouldResemble, []int{0, 0, 2, 3, 4, 5, 0, 0})

			// The lane offers itself again once the job is recorded.
			select {
			case <-time.After(2 * time.Second):
				t.Fatal(timeoutMsg)
			case <-pool.workers:
			}

			So(pool.metrics.ExportMetrics()["job_count"], ShouldEqual, int64(1))
			So(pool.metrics.LaneCells[0], ShouldEqual, int64(4))
		})

		Convey("It should exit when the context is cancelled", func() {
			cancel()

			select {
			case <-time.After(2 * time.Second):
				t.Fatal(timeoutMsg)
			case err := <-exited:
				So(err, ShouldBeNil)
				exited <- err
			}
		})
	})
}
