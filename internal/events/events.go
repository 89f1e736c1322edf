// Package events defines the lifecycle event fan-out. Every successful
// transition produces exactly one typed event; each event knows which
// channels it is addressed to. Delivery is best-effort, at-most-once — a
// disconnected subscriber reconciles via a list refresh, not replay.
package events

import (
	claimmodels "sharebite/internal/claim/models"
	donationmodels "sharebite/internal/donation/models"
	id "sharebite/pkg/domain"
)

// ChannelGlobal receives events of platform-wide interest.
const ChannelGlobal = "global"

// UserChannel addresses one user's private stream.
func UserChannel(userID id.UserID) string { return "user:" + userID.String() }

// LocationChannel addresses everyone watching a city.
func LocationChannel(city string) string { return "location:" + city }

// DonationChannel addresses the room for a single donation.
func DonationChannel(donationID id.DonationID) string { return "donation:" + donationID.String() }

// Event is a tagged variant with a fixed schema per name. Channels returns the
// addresses this event is published to; payload fields tagged json:"-" exist
// only for addressing and never go over the wire.
type Event interface {
	Name() string
	Channels() []string
}

// NewDonation announces a freshly posted donation.
type NewDonation struct {
	Donation *donationmodels.Donation `json:"donation"`
}

func (e NewDonation) Name() string { return "new_donation" }
func (e NewDonation) Channels() []string {
	return []string{
		UserChannel(e.Donation.Donor),
		LocationChannel(e.Donation.Location.City),
		ChannelGlobal,
	}
}

// DonationClaimed tells both parties a donation has been reserved.
type DonationClaimed struct {
	Donation *donationmodels.Donation `json:"donation"`
	Claim    *claimmodels.Claim       `json:"claim"`
}

func (e DonationClaimed) Name() string { return "donation_claimed" }
func (e DonationClaimed) Channels() []string {
	return []string{
		UserChannel(e.Donation.Donor),
		UserChannel(e.Claim.Claimant),
		DonationChannel(e.Donation.ID),
	}
}

// ClaimCreated delivers the verification code to the claimant. It carries the
// secret OTP and therefore goes to the claimant's channel only — broadcasting
// it would leak the code.
type ClaimCreated struct {
	Claim *claimmodels.Claim `json:"claim"`
	OTP   string             `json:"otp"`
}

func (e ClaimCreated) Name() string { return "claim_created" }
func (e ClaimCreated) Channels() []string {
	return []string{UserChannel(e.Claim.Claimant)}
}

// PickupConfirmed tells both parties the donor verified the code.
type PickupConfirmed struct {
	Claim *claimmodels.Claim `json:"claim"`
	Donor id.UserID          `json:"-"`
}

func (e PickupConfirmed) Name() string { return "pickup_confirmed" }
func (e PickupConfirmed) Channels() []string {
	return []string{
		UserChannel(e.Donor),
		UserChannel(e.Claim.Claimant),
		DonationChannel(e.Claim.DonationID),
	}
}

// DonationCollected closes the loop on a successful handoff.
type DonationCollected struct {
	Claim *claimmodels.Claim `json:"claim"`
	Donor id.UserID          `json:"-"`
}

func (e DonationCollected) Name() string { return "donation_collected" }
func (e DonationCollected) Channels() []string {
	return []string{
		UserChannel(e.Donor),
		UserChannel(e.Claim.Claimant),
		DonationChannel(e.Claim.DonationID),
	}
}

// ClaimCancelled tells both parties the claimant released the donation.
type ClaimCancelled struct {
	Donation *donationmodels.Donation `json:"donation"`
	Claimant id.UserID                `json:"-"`
}

func (e ClaimCancelled) Name() string { return "claim_cancelled" }
func (e ClaimCancelled) Channels() []string {
	return []string{
		UserChannel(e.Donation.Donor),
		UserChannel(e.Claimant),
		DonationChannel(e.Donation.ID),
	}
}

// DonationStatusUpdated announces a status change of broad interest, e.g. a
// donation returning to available after an expired claim.
type DonationStatusUpdated struct {
	Donation *donationmodels.Donation `json:"donation"`
}

func (e DonationStatusUpdated) Name() string { return "donation_status_updated" }
func (e DonationStatusUpdated) Channels() []string {
	return []string{
		DonationChannel(e.Donation.ID),
		LocationChannel(e.Donation.Location.City),
		ChannelGlobal,
	}
}
