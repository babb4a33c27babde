package mpu401

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResetCommandQueuesSingleAck(t *testing.T) {
	u := New(nil)
	u.WritePort(portStatus, 0xFF) // CMD_RESET

	_, v := u.ReadPort(portData)
	assert.Equal(t, byte(ackByte), v)

	_, status := u.ReadPort(portStatus)
	assert.NotZero(t, status&0x80, "queue drained: DSR must report no data")
}

func TestUARTModeCommandAlsoAcks(t *testing.T) {
	u := New(nil)
	u.WritePort(portStatus, 0x3F) // CMD_UART_MODE

	_, v := u.ReadPort(portData)
	assert.Equal(t, byte(ackByte), v)
}

func TestDataWriteInUARTModePassesThroughImmediately(t *testing.T) {
	u := New(nil)
	var got []byte
	u.Out = func(b byte) { got = append(got, b) }

	u.WritePort(portData, 0x90)
	u.WritePort(portData, 0x40)
	u.WritePort(portData, 0x7F)

	assert.Equal(t, []byte{0x90, 0x40, 0x7F}, got)
}

func TestStatusReportsDataReadyWhileAckQueued(t *testing.T) {
	u := New(nil)
	_, before := u.ReadPort(portStatus)
	assert.NotZero(t, before&0x80, "nothing queued yet")

	u.WritePort(portStatus, 0xFF)
	_, during := u.ReadPort(portStatus)
	assert.Zero(t, during&0x80, "ack byte is queued and ready to read")
}

func TestReadDataWithEmptyQueueReturnsAckByte(t *testing.T) {
	u := New(nil)
	_, v := u.ReadPort(portData)
	assert.Equal(t, byte(ackByte), v)
}

func TestReceivedBytesDrainBeforeFurtherCommandAcks(t *testing.T) {
	u := New(nil)
	u.Receive(0x90)
	u.WritePort(portStatus, 0xFF) // queues an ack behind the received byte

	_, first := u.ReadPort(portData)
	assert.Equal(t, byte(0x90), first)

	_, second := u.ReadPort(portData)
	assert.Equal(t, byte(ackByte), second)
}
