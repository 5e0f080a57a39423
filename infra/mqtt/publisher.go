// Package mqtt publishes plan summaries for telematics consumers.
// Publishing is fire-and-forget: a broker outage degrades to log noise,
// never to a failed planning request.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/haulcost/fuelroute/core/model"
	"github.com/haulcost/fuelroute/infra/logger"
)

// Config defines the connection parameters for the plan event stream.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "fuelroute/plans"
	}
	if c.ClientID == "" {
		c.ClientID = "fuelroute-" + uuid.NewString()[:8]
	}
}

// Validate checks mandatory fields when publishing is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required when events are enabled")
	}
	return nil
}

// StopSummary is the per-stop slice of a published plan event.
type StopSummary struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	RouteMiles float64 `json:"route_miles"`
	Gallons    float64 `json:"gallons_bought"`
	Cost       float64 `json:"cost"`
}

// PlanMessage is the wire payload of one computed plan.
type PlanMessage struct {
	RequestID  string        `json:"request_id"`
	RouteMiles float64       `json:"route_miles"`
	TotalCost  float64       `json:"total_cost"`
	Stops      []StopSummary `json:"stops"`
	Time       time.Time     `json:"time"`
}

// PlanPublisher emits plan events.
type PlanPublisher interface {
	PublishPlan(requestID string, routeMiles float64, plan model.FuelPlan) error
	Close()
}

// NopPublisher discards plan events.
type NopPublisher struct{}

// PublishPlan implements PlanPublisher.
func (NopPublisher) PublishPlan(string, float64, model.FuelPlan) error { return nil }

// Close implements PlanPublisher.
func (NopPublisher) Close() {}

// PahoPublisher publishes plan events over MQTT using Eclipse Paho.
type PahoPublisher struct {
	cli   paho.Client
	topic string
	qos   byte
	log   logger.Logger
}

// NewPahoPublisher connects to the broker and returns the publisher.
func NewPahoPublisher(cfg Config) (*PahoPublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	cli := paho.NewClient(opts)
	tok := cli.Connect()
	if !tok.WaitTimeout(10*time.Second) || tok.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %v", tok.Error())
	}
	return &PahoPublisher{cli: cli, topic: cfg.Topic, qos: cfg.QoS, log: logger.New("plan-events")}, nil
}

// PublishPlan serializes the plan summary and publishes it on the
// configured topic.
func (p *PahoPublisher) PublishPlan(requestID string, routeMiles float64, plan model.FuelPlan) error {
	msg := PlanMessage{
		RequestID:  requestID,
		RouteMiles: routeMiles,
		TotalCost:  plan.TotalCost,
		Stops:      make([]StopSummary, 0, len(plan.Stops)),
		Time:       time.Now().UTC(),
	}
	for _, st := range plan.Stops {
		msg.Stops = append(msg.Stops, StopSummary{
			ID:         st.Station.ID,
			Name:       st.Station.Name,
			RouteMiles: st.Station.RouteMiles,
			Gallons:    st.GallonsBought,
			Cost:       st.Cost,
		})
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	tok := p.cli.Publish(p.topic, p.qos, false, payload)
	if !tok.WaitTimeout(5*time.Second) || tok.Error() != nil {
		p.log.Warnf("plan event publish failed: %v", tok.Error())
		return fmt.Errorf("mqtt publish: %v", tok.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (p *PahoPublisher) Close() { p.cli.Disconnect(250) }
