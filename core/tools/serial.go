package tools

import (
	"fmt"
	"sync"
	"time"

	"github.com/menschrobotics/ruby-core/core/llms"
	"go.bug.st/serial"
)

const serialSettleDelay = 2 * time.Second

// NewSerialCommandTool forwards opaque command strings to a microcontroller
// over a serial line. The port is opened lazily on first use and kept open;
// boards that reset on open get a settle delay before the first write.
func NewSerialCommandTool(devicePath string, baudRate int) Spec {
	var (
		mu   sync.Mutex
		port serial.Port
	)

	openPort := func() (serial.Port, error) {
		if port != nil {
			return port, nil
		}

		opened, err := serial.Open(devicePath, &serial.Mode{BaudRate: baudRate})
		if err != nil {
			return nil, fmt.Errorf("could not open serial port %s: %w", devicePath, err)
		}
		time.Sleep(serialSettleDelay)

		port = opened
		return port, nil
	}

	return Spec{
		Tool: llms.NewTool(
			"arduino_serial_communication",
			"Send a command string to the connected hardware controller. The command is forwarded verbatim; do not invent commands that were not asked for.",
			func(parameters struct {
				Command string `json:"command" jsonschema:"required,description=Command string to forward to the controller"`
			}) (string, error) {
				mu.Lock()
				defer mu.Unlock()

				opened, err := openPort()
				if err != nil {
					return "", err
				}

				if _, err := opened.Write([]byte(parameters.Command + "\n")); err != nil {
					port = nil
					return "", fmt.Errorf("could not write to serial port %s: %w", devicePath, err)
				}

				return fmt.Sprintf("sent %q to %s", parameters.Command, devicePath), nil
			},
		),
	}
}
