package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/spf13/viper"

	"github.com/openmark/goapi/base/log"
)

const (
	ddClientsSize    = 16 // needs to be 2^n
	ddClientsIdxMask = ddClientsSize - 1

	// ddRate is the rate to pass metrics to datadog agent. 1 means always
	ddRate = 1
	// buffer 10 counters before sending to statsd
	bufferMetrics = 10

	// DdPort is the statsd agent port
	DdPort = 8125
)

var (
	initOnce = sync.Once{}

	// ddClientsIdx is used for accessing ddClients by round robin scheduling
	ddClientsIdx = int32(0)
	ddClients    []statsCli
)

func initDDClient() {
	ddHost := viper.GetString("datadog_host")
	ddClients = make([]statsCli, ddClientsSize)
	for i := 0; i < ddClientsSize; i++ {
		// one buffered client per slot so buffers are flushed independently
		addr := fmt.Sprintf("%s:%d", ddHost, DdPort)

		cli, err := statsd.NewBuffered(addr, bufferMetrics)
		if err != nil {
			log.Log().WithFields(log.Fields{"addr": addr, "err": err}).Warn("can't talk to datadog agent, metrics are logged instead")
			ddClients[i] = &LogClient{}
			continue
		}
		ddClients[i] = cli
	}
}

type statsCli interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	TimeInMilliseconds(name string, value float64, tags []string, rate float64) error
}

// DDMetrics wraps datadog statsd metrics
type DDMetrics struct {
	ddTags []string
}

func (dm *DDMetrics) next() statsCli {
	initOnce.Do(initDDClient)
	i := atomic.AddInt32(&ddClientsIdx, 1) & ddClientsIdxMask
	return ddClients[i]
}

// BumpAvg bumps the average for the given key.
func (dm *DDMetrics) BumpAvg(key string, val, sampleRate float64, tags ...string) {
	if err := dm.next().Gauge(key, val, append(dm.ddTags, parseTag(tags)...), sampleRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": "BumpAvg"}).Error("Bump fail")
	}
}

// BumpSum bumps the sum for the given key.
func (dm *DDMetrics) BumpSum(key string, val, sampleRate float64, tags ...string) {
	if err := dm.next().Count(key, int64(val), append(dm.ddTags, parseTag(tags)...), sampleRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": "BumpSum"}).Error("Bump fail")
	}
}

// BumpHistogram bumps the histogram for the given key.
func (dm *DDMetrics) BumpHistogram(key string, val, sampleRate float64, tags ...string) {
	if err := dm.next().Histogram(key, val, append(dm.ddTags, parseTag(tags)...), sampleRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": "BumpHistogram"}).Error("Bump fail")
	}
}

// BumpTimeInMilliseconds bumps the elapsed time for the given key.
func (dm *DDMetrics) BumpTimeInMilliseconds(key string, val, sampleRate float64, tags ...string) {
	if err := dm.next().TimeInMilliseconds(key, val, append(dm.ddTags, parseTag(tags)...), sampleRate); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": "BumpTime"}).Error("Bump fail")
	}
}

// parseTag converts "k1, v1, k2, v2" style bump tags into datadog "k1:v1" tags
func parseTag(tags []string) []string {
	res := make([]string, 0, (len(tags)+1)/2)
	for i := 0; i+1 < len(tags); i += 2 {
		res = append(res, tags[i]+":"+tags[i+1])
	}
	if len(tags)%2 == 1 {
		res = append(res, tags[len(tags)-1]+":"+TagValueNA)
	}
	return res
}

// TagValueNA is used for tags whose values are not available.
const TagValueNA = "n/a"
