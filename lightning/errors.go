package lightning

import "fmt"

// PeerNotConnectedError is returned when the node never listed the peer
// within the allotted attempts.
type PeerNotConnectedError struct {
	NodeID   string
	Attempts int
}

func (e *PeerNotConnectedError) Error() string {
	return fmt.Sprintf("peer %s not connected after %d attempts", e.NodeID, e.Attempts)
}

// ChannelNotActiveError is returned when no active channel with the peer
// showed up within the allotted attempts.
type ChannelNotActiveError struct {
	NodeID   string
	Attempts int
}

func (e *ChannelNotActiveError) Error() string {
	return fmt.Sprintf("no active channel with %s after %d attempts", e.NodeID, e.Attempts)
}

// PaymentError carries the failure reason lnd reports for a payment that
// was dispatched but did not settle.
type PaymentError struct {
	Invoice string
	Reason  string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed: %s", e.Reason)
}
