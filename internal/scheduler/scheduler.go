// Package scheduler runs periodic jobs behind a small interface so that
// polling code can be driven by a virtual clock in tests.
package scheduler

import (
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CancelFunc stops a scheduled job. Calling it more than once is a no-op.
type CancelFunc func()

// Scheduler runs fn every interval until cancelled
type Scheduler interface {
	Schedule(interval time.Duration, fn func()) CancelFunc
}

// Cron is a Scheduler backed by robfig/cron
type Cron struct {
	cron *cron.Cron
	log  *logrus.Logger
}

// NewCron creates a cron scheduler. Call Start to begin firing jobs.
func NewCron(log *logrus.Logger) *Cron {
	return &Cron{
		cron: cron.New(cron.WithChain(cron.Recover(cronLogger{log}))),
		log:  log,
	}
}

// Schedule registers fn to run every interval
func (c *Cron) Schedule(interval time.Duration, fn func()) CancelFunc {
	id := c.cron.Schedule(cron.Every(interval), cron.FuncJob(fn))
	c.log.Debugf("Scheduled job %d every %s", id, interval)
	var once sync.Once
	return func() {
		once.Do(func() {
			c.cron.Remove(id)
			c.log.Debugf("Cancelled job %d", id)
		})
	}
}

// Start begins running jobs in the background
func (c *Cron) Start() {
	c.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish
func (c *Cron) Stop() {
	<-c.cron.Stop().Done()
}

// cronLogger adapts logrus to cron.Logger
type cronLogger struct {
	log *logrus.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithFields(fields(keysAndValues)).WithError(err).Error(msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if k, ok := keysAndValues[i].(string); ok {
			f[k] = keysAndValues[i+1]
		}
	}
	return f
}

// Virtual is a Scheduler driven by Advance instead of the wall clock
type Virtual struct {
	mu     sync.Mutex
	now    time.Time
	nextID int
	jobs   map[int]*virtualJob
}

type virtualJob struct {
	id       int
	interval time.Duration
	next     time.Time
	fn       func()
}

// NewVirtual creates a virtual scheduler whose clock starts at start
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start, jobs: make(map[int]*virtualJob)}
}

// Schedule registers fn to run every interval of virtual time
func (v *Virtual) Schedule(interval time.Duration, fn func()) CancelFunc {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextID++
	id := v.nextID
	v.jobs[id] = &virtualJob{id: id, interval: interval, next: v.now.Add(interval), fn: fn}
	return func() {
		v.mu.Lock()
		delete(v.jobs, id)
		v.mu.Unlock()
	}
}

// Now returns the current virtual time
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Pending returns the number of active jobs
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.jobs)
}

// Advance moves the clock forward by d and runs every job that became due,
// in due-time order. Jobs run on the calling goroutine.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	for {
		v.mu.Lock()
		job := v.nextDue(target)
		if job == nil {
			v.now = target
			v.mu.Unlock()
			return
		}
		v.now = job.next
		job.next = job.next.Add(job.interval)
		fn := job.fn
		v.mu.Unlock()

		fn()
	}
}

func (v *Virtual) nextDue(target time.Time) *virtualJob {
	var due []*virtualJob
	for _, j := range v.jobs {
		if !j.next.After(target) {
			due = append(due, j)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(a, b int) bool {
		if due[a].next.Equal(due[b].next) {
			return due[a].id < due[b].id
		}
		return due[a].next.Before(due[b].next)
	})
	return due[0]
}
