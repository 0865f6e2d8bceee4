package telephony

import (
	"context"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"

	"github.com/square-key-labs/hostline-ai/src/logger"
)

// LiveKitControl implements RoomControl against a LiveKit server
type LiveKitControl struct {
	rooms *lksdk.RoomServiceClient
	sip   *lksdk.SIPClient
	log   *logger.Logger
}

// NewLiveKitControl creates a LiveKit-backed room controller
func NewLiveKitControl(url, apiKey, apiSecret string) *LiveKitControl {
	return &LiveKitControl{
		rooms: lksdk.NewRoomServiceClient(url, apiKey, apiSecret),
		sip:   lksdk.NewSIPClient(url, apiKey, apiSecret),
		log:   logger.WithPrefix("telephony"),
	}
}

// FindSIPParticipant scans the room for its SIP call leg
func (l *LiveKitControl) FindSIPParticipant(ctx context.Context, room string) (*Participant, error) {
	res, err := l.rooms.ListParticipants(ctx, &livekit.ListParticipantsRequest{Room: room})
	if err != nil {
		return nil, err
	}

	for _, info := range res.Participants {
		if info.Kind != livekit.ParticipantInfo_SIP {
			continue
		}
		p := FromAttributes(info.Identity, info.Attributes)
		return &p, nil
	}
	return nil, nil
}

// RemoveParticipant disconnects the participant from the room
func (l *LiveKitControl) RemoveParticipant(ctx context.Context, room, identity string) error {
	l.log.Info("Removing participant %s from %s", identity, room)
	_, err := l.rooms.RemoveParticipant(ctx, &livekit.RoomParticipantIdentity{
		Room:     room,
		Identity: identity,
	})
	return err
}

// TransferParticipant moves the SIP participant to the transfer target
func (l *LiveKitControl) TransferParticipant(ctx context.Context, room, identity, transferTo string) error {
	l.log.Info("Transferring %s in %s to %s", identity, room, transferTo)
	_, err := l.sip.TransferSIPParticipant(ctx, &livekit.TransferSIPParticipantRequest{
		RoomName:            room,
		ParticipantIdentity: identity,
		TransferTo:          transferTo,
	})
	return err
}
