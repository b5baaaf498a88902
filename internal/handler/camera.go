package handler

import (
	"bytes"
	"net"
	"strconv"

	"sceneguard/internal/config"
	"sceneguard/internal/logger"
	"sceneguard/internal/service"
)

var (
	jpegHeader = []byte{0xFF, 0xD8}
	jpegFooter = []byte{0xFF, 0xD9}
)

// frameAssembler rebuilds JPEG frames split across UDP packets, per camera.
type frameAssembler struct {
	buffers map[string]*bytes.Buffer
}

func newFrameAssembler() *frameAssembler {
	return &frameAssembler{buffers: make(map[string]*bytes.Buffer)}
}

// Feed appends a packet and returns the complete frame once the JPEG footer arrives.
// A packet starting with the JPEG header discards any partial frame.
func (a *frameAssembler) Feed(camera string, data []byte) ([]byte, bool) {
	imgBuffer, ok := a.buffers[camera]
	if !ok {
		imgBuffer = new(bytes.Buffer)
		a.buffers[camera] = imgBuffer
	}

	if bytes.HasPrefix(data, jpegHeader) {
		imgBuffer.Reset()
	}
	imgBuffer.Write(data)

	if !bytes.HasSuffix(data, jpegFooter) {
		return nil, false
	}

	fullFrame := make([]byte, imgBuffer.Len())
	copy(fullFrame, imgBuffer.Bytes())
	imgBuffer.Reset()
	if !bytes.HasPrefix(fullFrame, jpegHeader) {
		return nil, false
	}
	return fullFrame, true
}

// cameraName maps the sender IP to its configured name.
func cameraName(cfg *config.Config, addr *net.UDPAddr) string {
	ip := addr.IP.String()
	if name, exists := cfg.CameraNames[ip]; exists {
		return name
	}
	return "unknown_" + ip
}

// UDPCameraHandler listens for UDP packets from cameras, reconstructs JPEG frames,
// and forwards complete frames to the Manager for buffering.
func UDPCameraHandler(manager *service.Manager, logger *logger.Logger, config *config.Config) {
	port := strconv.Itoa(config.CamerasPort)

	addr, err := net.ResolveUDPAddr("udp", ":"+port)
	if err != nil {
		logger.Error("Failed to resolve UDP address: %v", err)
		return
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		logger.Error("Failed to listen on UDP port %s: %v", port, err)
		return
	}
	defer conn.Close()

	logger.Info("UDP Camera handler started on port %s", port)
	buffer := make([]byte, 65507)
	assembler := newFrameAssembler()

	for {
		n, remoteAddr, err := conn.ReadFromUDP(buffer)
		if err != nil {
			logger.Error("Error reading UDP packet: %v", err)
			continue
		}

		camera := cameraName(config, remoteAddr)
		if frame, ok := assembler.Feed(camera, buffer[:n]); ok {
			manager.HandleCameraImage(frame, camera)
		}
	}
}
