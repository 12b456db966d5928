package mqtt

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/golang/glog"

	fx "github.com/robotalks/pisibot/pkg/framework"
	"github.com/robotalks/pisibot/pkg/l1"
	"github.com/robotalks/pisibot/pkg/l1/msgs"
)

// Topic suffixes under the robot name.
const (
	TopicMeta   = "meta"
	TopicStatus = "status"
)

// Reporter publishes robot telemetry. The robot meta is published
// retained while connected and cleared by will when connection is lost.
type Reporter struct {
	Queue *Queue
	Info  l1.RobotInfo

	metaJSON []byte
}

// NewReporter creates a Reporter.
func NewReporter(brokerURL string, info l1.RobotInfo) (*Reporter, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+JoinTopic(info.Ref.Name(), TopicMeta), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("robo:" + info.Ref.Name())
	}
	return NewReporterWithQueue(NewQueue(opts, topicPrefix), info), nil
}

// NewReporterWithQueue creates a Reporter on an existing Queue.
func NewReporterWithQueue(q *Queue, info l1.RobotInfo) *Reporter {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		panic(err)
	}
	r := &Reporter{Queue: q, Info: info, metaJSON: meta}
	r.Queue.OnConnect = func(*Queue) { r.onConnected() }
	return r
}

// Name implements Named.
func (r *Reporter) Name() string {
	return "mqtt-reporter"
}

// Report publishes a message on the status topic. It doesn't wait for
// delivery, reports while disconnected are dropped.
func (r *Reporter) Report(msg msgs.SerializableMessage) error {
	payload, err := msgs.EncodeTyped(msg)
	if err != nil {
		return err
	}
	if !r.Queue.IsConnected() {
		glog.V(4).Info("not connected, report dropped")
		return nil
	}
	r.Queue.Pub(JoinTopic(r.Info.Ref.Name(), TopicStatus), payload)
	return nil
}

// Run implements Runnable.
func (r *Reporter) Run(ctx context.Context) error {
	r.Queue.Connect()
	<-ctx.Done()
	r.Queue.PubWith(JoinTopic(r.Info.Ref.Name(), TopicMeta), nil, 1, true).Wait()
	r.Queue.Close()
	return ctx.Err()
}

func (r *Reporter) onConnected() {
	r.Queue.PubWith(JoinTopic(r.Info.Ref.Name(), TopicMeta), r.metaJSON, 1, true)
}

// WatchHandler receives telemetry of robots. msg is nil when only meta
// is received, and meta is nil when the robot went offline.
type WatchHandler interface {
	RobotMeta(ref l1.RobotRef, meta *l1.RobotMeta)
	RobotStatus(ref l1.RobotRef, msg fx.Message)
	BadMessage(topic string, err error)
}

// Watch subscribes telemetry of robots matching ref. Empty Type or ID
// matches any.
func Watch(q *Queue, ref l1.RobotRef, h WatchHandler) []*Subscription {
	typ, id := ref.Type, ref.ID
	if typ == "" {
		typ = "+"
	}
	if id == "" {
		id = "+"
	}
	return []*Subscription{
		q.Sub(JoinTopic(typ, id, TopicMeta), func(topic string, payload []byte) {
			ref, ok := refFromTopic(topic)
			if !ok {
				return
			}
			if len(payload) == 0 {
				h.RobotMeta(ref, nil)
				return
			}
			var meta l1.RobotMeta
			if err := json.Unmarshal(payload, &meta); err != nil {
				h.BadMessage(topic, err)
				return
			}
			h.RobotMeta(ref, &meta)
		}),
		q.Sub(JoinTopic(typ, id, TopicStatus), func(topic string, payload []byte) {
			ref, ok := refFromTopic(topic)
			if !ok {
				return
			}
			typed, err := msgs.DecodeTyped(payload)
			if err != nil {
				h.BadMessage(topic, err)
				return
			}
			msg, err := typed.Decode()
			if err != nil {
				h.BadMessage(topic, err)
				return
			}
			h.RobotStatus(ref, msg)
		}),
	}
}

func refFromTopic(topic string) (ref l1.RobotRef, ok bool) {
	items := strings.Split(topic, "/")
	if len(items) != 3 {
		return
	}
	ref.Type, ref.ID = items[0], items[1]
	return ref, true
}
