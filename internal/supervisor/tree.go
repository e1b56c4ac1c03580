// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package supervisor

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Layer names one child supervisor of the tree.
type Layer string

const (
	// LayerData runs the interpreter rebuilder and the model retrainer.
	LayerData Layer = "data"

	// LayerMessaging runs event ingestion.
	LayerMessaging Layer = "messaging"

	// LayerAPI runs the HTTP server.
	LayerAPI Layer = "api"
)

// layerOrder is the order layers are added to the root, and so the order
// suture starts them in.
var layerOrder = [...]Layer{LayerData, LayerMessaging, LayerAPI}

// TreeConfig tunes suture's restart backoff. Zero fields take the
// DefaultTreeConfig value.
type TreeConfig struct {
	FailureThreshold float64       // failures tolerated before backing off
	FailureDecay     float64       // seconds for the failure count to decay
	FailureBackoff   time.Duration // pause once the threshold is exceeded
	ShutdownTimeout  time.Duration // per-service stop budget
}

// DefaultTreeConfig returns suture's own defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	c.FailureThreshold = cmp.Or(c.FailureThreshold, d.FailureThreshold)
	c.FailureDecay = cmp.Or(c.FailureDecay, d.FailureDecay)
	c.FailureBackoff = cmp.Or(c.FailureBackoff, d.FailureBackoff)
	c.ShutdownTimeout = cmp.Or(c.ShutdownTimeout, d.ShutdownTimeout)
	return c
}

func (c TreeConfig) spec() suture.Spec {
	return suture.Spec{
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// SupervisorTree is the process supervisor. A crash in one layer restarts
// only that layer's services, so a failing NATS connection never takes the
// HTTP server down with it.
type SupervisorTree struct {
	root   *suture.Supervisor
	layers map[Layer]*suture.Supervisor
	logger *slog.Logger
	config TreeConfig
}

// NewSupervisorTree creates the root supervisor and its three layers.
// Supervisor events are logged through logger by sutureslog.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	if logger == nil {
		logger = slog.Default()
	}
	config = config.withDefaults()

	rootSpec := config.spec()
	rootSpec.EventHook = (&sutureslog.Handler{Logger: logger}).MustHook()

	t := &SupervisorTree{
		root:   suture.New("shopsense", rootSpec),
		layers: make(map[Layer]*suture.Supervisor, len(layerOrder)),
		logger: logger,
		config: config,
	}
	for _, l := range layerOrder {
		// Children inherit the root's EventHook once added.
		sup := suture.New(string(l)+"-layer", config.spec())
		t.layers[l] = sup
		t.root.Add(sup)
	}
	return t, nil
}

// Root returns the root supervisor.
func (t *SupervisorTree) Root() *suture.Supervisor { return t.root }

func (t *SupervisorTree) layer(l Layer) (*suture.Supervisor, error) {
	sup, ok := t.layers[l]
	if !ok {
		return nil, fmt.Errorf("unknown supervisor layer %q", l)
	}
	return sup, nil
}

// Add adds svc to layer l.
func (t *SupervisorTree) Add(l Layer, svc suture.Service) (suture.ServiceToken, error) {
	sup, err := t.layer(l)
	if err != nil {
		return suture.ServiceToken{}, err
	}
	t.logger.Debug("service registered", "layer", string(l), "service", fmt.Sprint(svc))
	return sup.Add(svc), nil
}

// AddDataService adds svc to the data layer.
func (t *SupervisorTree) AddDataService(svc suture.Service) suture.ServiceToken {
	return t.layers[LayerData].Add(svc)
}

// AddMessagingService adds svc to the messaging layer.
func (t *SupervisorTree) AddMessagingService(svc suture.Service) suture.ServiceToken {
	return t.layers[LayerMessaging].Add(svc)
}

// AddAPIService adds svc to the API layer.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.layers[LayerAPI].Add(svc)
}

// Remove stops the service behind token in layer l.
func (t *SupervisorTree) Remove(l Layer, token suture.ServiceToken) error {
	sup, err := t.layer(l)
	if err != nil {
		return err
	}
	return sup.Remove(token)
}

// ServeBackground runs the tree until ctx is canceled. The channel
// receives the result once the tree stops.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that outlived ShutdownTimeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
