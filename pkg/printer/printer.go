package printer

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultPort is the raw ESC/POS TCP port.
const DefaultPort = "9100"

// Printer sends raw ESC/POS jobs to a receipt printer.
type Printer interface {
	Print(data []byte) error
	Close() error
	IsConnected() bool
}

// usbPrinter writes to a device file such as /dev/usb/lp0. The device is
// opened per job so a printer switched off between sales recovers by itself.
type usbPrinter struct {
	path string
}

// NewUSBPrinter creates a printer that writes to a USB device file.
func NewUSBPrinter(devicePath string) Printer {
	return &usbPrinter{path: devicePath}
}

func (p *usbPrinter) Print(data []byte) error {
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open USB device %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write to USB device %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) Close() error { return nil }

func (p *usbPrinter) IsConnected() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

// networkPrinter dials the printer for every job.
type networkPrinter struct {
	address string
	timeout time.Duration
}

// NewNetworkPrinter creates a printer reachable over TCP. An address without
// a port gets DefaultPort.
func NewNetworkPrinter(address string, timeout time.Duration) Printer {
	if _, _, err := net.SplitHostPort(address); err != nil {
		address = net.JoinHostPort(address, DefaultPort)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &networkPrinter{address: address, timeout: timeout}
}

func (p *networkPrinter) Print(data []byte) error {
	conn, err := net.DialTimeout("tcp", p.address, p.timeout)
	if err != nil {
		return fmt.Errorf("printer: connect to %s: %w", p.address, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(p.timeout))
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write to %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Close() error { return nil }

func (p *networkPrinter) IsConnected() bool {
	conn, err := net.DialTimeout("tcp", p.address, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// spoolPrinter writes each job to its own file. Used for rehearsal runs.
type spoolPrinter struct {
	dir string
	mu  sync.Mutex
	seq int
}

// NewSpoolPrinter creates a printer that stores jobs as receipt_<n>.bin
// files under dir.
func NewSpoolPrinter(dir string) Printer {
	return &spoolPrinter{dir: dir}
}

func (p *spoolPrinter) Print(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("printer: create spool dir: %w", err)
	}
	p.seq++
	name := fmt.Sprintf("receipt_%s_%03d.bin", time.Now().Format("20060102_150405"), p.seq)
	if err := os.WriteFile(filepath.Join(p.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("printer: spool job: %w", err)
	}
	return nil
}

func (p *spoolPrinter) Close() error { return nil }

func (p *spoolPrinter) IsConnected() bool { return true }

// nullPrinter drops every job.
type nullPrinter struct{}

// NewNullPrinter creates a no-op printer for terminals without hardware.
func NewNullPrinter() Printer {
	return &nullPrinter{}
}

func (p *nullPrinter) Print(data []byte) error { return nil }

func (p *nullPrinter) Close() error { return nil }

func (p *nullPrinter) IsConnected() bool { return false }

// NewPrinterFromConfig creates the Printer for printerType:
//
//	usb:     target is the device path (e.g. "/dev/usb/lp0")
//	network: target is host or host:port (e.g. "192.168.1.100:9100")
//	spool:   target is a directory receiving one file per job
//	none:    jobs are dropped
func NewPrinterFromConfig(printerType, target string, timeout time.Duration) (Printer, error) {
	switch printerType {
	case "usb":
		if target == "" {
			return nil, fmt.Errorf("printer: USB path is required for USB printer type")
		}
		return NewUSBPrinter(target), nil
	case "network":
		if target == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
		return NewNetworkPrinter(target, timeout), nil
	case "spool":
		if target == "" {
			return nil, fmt.Errorf("printer: directory is required for spool printer type")
		}
		return NewSpoolPrinter(target), nil
	case "none", "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, spool or none)", printerType)
	}
}
