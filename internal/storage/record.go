package storage

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/mmynk/govledger/internal/models"
)

// MaxRecordSize is the upper bound for one serialized proposal.
const MaxRecordSize = 5000

// ErrRecordTooLarge is returned when a proposal does not fit in MaxRecordSize.
var ErrRecordTooLarge = errors.New("record exceeds maximum size")

// Field numbers of the proposal record. They are part of the on-disk format
// and must never be renumbered.
const (
	fieldID          protowire.Number = 1
	fieldDescription protowire.Number = 2
	fieldApprove     protowire.Number = 3
	fieldReject      protowire.Number = 4
	fieldIsActive    protowire.Number = 5
	fieldVoted       protowire.Number = 6
	fieldOwner       protowire.Number = 7
)

// MarshalProposal encodes p in protobuf wire format.
// Fields are always written in field-number order so equal proposals encode
// to identical bytes.
func MarshalProposal(p *models.Proposal) ([]byte, error) {
	b := make([]byte, 0, 64+len(p.Description))
	b = protowire.AppendTag(b, fieldID, protowire.VarintType)
	b = protowire.AppendVarint(b, p.ID)
	b = protowire.AppendTag(b, fieldDescription, protowire.BytesType)
	b = protowire.AppendString(b, p.Description)
	b = protowire.AppendTag(b, fieldApprove, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(p.Approve))
	b = protowire.AppendTag(b, fieldReject, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(p.Reject))
	b = protowire.AppendTag(b, fieldIsActive, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeBool(p.IsActive))
	for _, id := range p.Voted {
		b = protowire.AppendTag(b, fieldVoted, protowire.BytesType)
		b = protowire.AppendString(b, string(id))
	}
	b = protowire.AppendTag(b, fieldOwner, protowire.BytesType)
	b = protowire.AppendString(b, string(p.Owner))

	if len(b) > MaxRecordSize {
		return nil, fmt.Errorf("%w: proposal %d is %d bytes, limit %d", ErrRecordTooLarge, p.ID, len(b), MaxRecordSize)
	}
	return b, nil
}

// UnmarshalProposal decodes a record produced by MarshalProposal.
// Unknown fields are skipped.
func UnmarshalProposal(b []byte) (*models.Proposal, error) {
	p := &models.Proposal{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("failed to decode tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case typ == protowire.VarintType && (num == fieldID || num == fieldApprove || num == fieldReject || num == fieldIsActive):
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("failed to decode field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			switch num {
			case fieldID:
				p.ID = v
			case fieldApprove:
				p.Approve = uint32(v)
			case fieldReject:
				p.Reject = uint32(v)
			case fieldIsActive:
				p.IsActive = protowire.DecodeBool(v)
			}
		case typ == protowire.BytesType && (num == fieldDescription || num == fieldVoted || num == fieldOwner):
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("failed to decode field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			switch num {
			case fieldDescription:
				p.Description = s
			case fieldVoted:
				p.Voted = append(p.Voted, models.Identity(s))
			case fieldOwner:
				p.Owner = models.Identity(s)
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("failed to skip field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return p, nil
}
