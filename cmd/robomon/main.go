package main

import (
	"flag"
	"log"
	"reflect"

	fx "github.com/robotalks/pisibot/pkg/framework"
	"github.com/robotalks/pisibot/pkg/l1"
	"github.com/robotalks/pisibot/pkg/l1/comm/mqtt"
	env "github.com/robotalks/pisibot/pkg/l1/env/connector"
	"github.com/robotalks/pisibot/pkg/l1/msgs"
)

type printer struct{}

func (printer) RobotMeta(ref l1.RobotRef, meta *l1.RobotMeta) {
	if meta == nil {
		log.Printf("%s: offline", ref.Name())
		return
	}
	log.Printf("%s: online radio=%02X %s", ref.Name(), meta.RadioID, meta.Description)
}

func (printer) RobotStatus(ref l1.RobotRef, msg fx.Message) {
	log.Printf("%s: [%s] %s", ref.Name(),
		reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
		msg.(msgs.SerializableMessage).Serializable().String())
}

func (printer) BadMessage(topic string, err error) {
	log.Printf("%s: bad message: %v", topic, err)
}

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := env.Default().NewQueue()
	if err != nil {
		log.Fatalln(err)
	}
	mqtt.Watch(q, env.Default().Ref, printer{})
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	<-(chan struct{})(nil)
}
