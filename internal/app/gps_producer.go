// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"fmt"
	"io"

	serial "github.com/jacobsa/go-serial/serial"
	"go.uber.org/zap"

	"github.com/relabs-tech/places_compass/internal/config"
	"github.com/relabs-tech/places_compass/internal/gps"
)

// RunGPSProducer opens the GPS serial port, parses NMEA sentences, and
// publishes each completed fix as JSON to the GPS topic. The compass uses
// these fixes as the device's current location.
func RunGPSProducer(logger *zap.SugaredLogger) error {
	cfg := config.Get()
	if cfg.GPSSerialPort == "" {
		return fmt.Errorf("GPS_SERIAL_PORT is required for the GPS producer")
	}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDGPS, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	serialOpts := serial.OpenOptions{
		PortName:              cfg.GPSSerialPort,
		BaudRate:              uint(cfg.GPSBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return fmt.Errorf("open GPS serial port %s: %w", serialOpts.PortName, err)
	}
	defer port.Close()
	logger.Infof("GPS serial port opened on %s at %d baud", serialOpts.PortName, serialOpts.BaudRate)

	return streamFixes(port, func(fix gps.Fix) error {
		if err := publishJSON(client, cfg.TopicGPS, true, fix); err != nil {
			logger.Warnf("GPS %v", err)
			return nil
		}
		logger.Debugf("published GPS fix: %+v", fix)
		return nil
	}, logger)
}

// streamFixes reads NMEA lines from r and calls publish for every
// completed fix until r is exhausted or publish fails.
func streamFixes(r io.Reader, publish func(gps.Fix) error, logger *zap.SugaredLogger) error {
	reader := bufio.NewReader(r)
	var builder gps.FixBuilder

	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			fix, complete, perr := builder.Feed(line)
			if perr != nil {
				// noisy GPS or partial sentences
				logger.Debugf("%v (line: %q)", perr, line)
			} else if complete {
				if err := publish(fix); err != nil {
					return err
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("GPS read: %w", err)
		}
	}
}
