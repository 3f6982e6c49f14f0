package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/assetkid/gallery/src/escrow"
	"github.com/assetkid/gallery/src/gallery"
	"github.com/assetkid/gallery/src/gateway/request"
	"github.com/assetkid/gallery/src/gateway/response"
	"github.com/assetkid/gallery/src/utils/config"

	"github.com/ethereum/go-ethereum/common"
)

// Client of the gallery gateway. Every call is made on behalf of the given address.
type Client struct {
	*BaseClient
}

func NewClient(config *config.Client) (self *Client) {
	self = new(Client)
	self.BaseClient = newBaseClient(config)
	return
}

func collectionPath(collectionId uint64, rest string) string {
	return fmt.Sprintf("/v1/collections/%d/%s", collectionId, rest)
}

func (self *Client) Collections(ctx context.Context) (*response.Collections, error) {
	return do(self.request(ctx, common.Address{}), http.MethodGet, "/v1/collections", &response.Collections{})
}

func (self *Client) Token(ctx context.Context, tokenId uint64) (*response.Token, error) {
	return do(self.request(ctx, common.Address{}), http.MethodGet, fmt.Sprintf("/v1/tokens/%d", tokenId), &response.Token{})
}

func (self *Client) Status(ctx context.Context, collectionId uint64) (*escrow.ContractStatus, error) {
	return do(self.request(ctx, common.Address{}), http.MethodGet, collectionPath(collectionId, "status"), &escrow.ContractStatus{})
}

func (self *Client) Book(ctx context.Context, collectionId uint64, isBid bool) (*response.Book, error) {
	side := "asks"
	if isBid {
		side = "bids"
	}
	return do(self.request(ctx, common.Address{}), http.MethodGet, collectionPath(collectionId, "book/"+side), &response.Book{})
}

func (self *Client) Order(ctx context.Context, collectionId uint64, isBid bool, slot int) (*escrow.Order, error) {
	side := "asks"
	if isBid {
		side = "bids"
	}
	return do(self.request(ctx, common.Address{}), http.MethodGet, collectionPath(collectionId, fmt.Sprintf("book/%s/%d", side, slot)), &escrow.Order{})
}

func (self *Client) TokenByMetadata(ctx context.Context, metadata common.Hash) (*response.Token, error) {
	return do(self.request(ctx, common.Address{}), http.MethodGet, "/v1/metadata/"+metadata.Hex(), &response.Token{})
}

func (self *Client) SupportInfo(ctx context.Context, collectionId uint64, holder common.Address) (*response.Support, error) {
	return do(self.request(ctx, common.Address{}), http.MethodGet, collectionPath(collectionId, "support/"+holder.Hex()), &response.Support{})
}

func (self *Client) Balance(ctx context.Context, holder common.Address, asset uint64) (*response.Balance, error) {
	return do(self.request(ctx, common.Address{}), http.MethodGet, fmt.Sprintf("/v1/balances/%s/%d", holder.Hex(), asset), &response.Balance{})
}

func (self *Client) CreateSimpleCollectable(ctx context.Context, from common.Address, in *request.CreateSimpleCollectable) (*gallery.SimpleCollectable, error) {
	return do(self.request(ctx, from).SetBody(in), http.MethodPost, "/v1/collections/simple", &gallery.SimpleCollectable{})
}

func (self *Client) CreateTierCollectable(ctx context.Context, from common.Address, in *request.CreateTierCollectable) (*gallery.TierCollectable, error) {
	return do(self.request(ctx, from).SetBody(in), http.MethodPost, "/v1/collections/tier", &gallery.TierCollectable{})
}

func (self *Client) Exchange(ctx context.Context, from common.Address, collectionId uint64, in *request.Exchange) (*gallery.Exchange, error) {
	return do(self.request(ctx, from).SetBody(in), http.MethodPost, collectionPath(collectionId, "exchange"), &gallery.Exchange{})
}

func (self *Client) Burn(ctx context.Context, from common.Address, collectionId uint64) (*gallery.Burn, error) {
	return do(self.request(ctx, from), http.MethodPost, collectionPath(collectionId, "burn"), &gallery.Burn{})
}

func (self *Client) SubmitOffer(ctx context.Context, from common.Address, collectionId uint64, in *request.SubmitOffer) (*escrow.SubmitResult, error) {
	return do(self.request(ctx, from).SetBody(in), http.MethodPost, collectionPath(collectionId, "offers"), &escrow.SubmitResult{})
}

func (self *Client) CancelOffer(ctx context.Context, from common.Address, collectionId uint64, isBid bool) (*response.Cancelled, error) {
	return do(self.request(ctx, from).SetBody(&request.CancelOffer{IsBid: isBid}), http.MethodDelete, collectionPath(collectionId, "offers"), &response.Cancelled{})
}

func (self *Client) Commercialize(ctx context.Context, from common.Address, collectionId uint64, in *request.Commercialize) (*escrow.ContractStatus, error) {
	return do(self.request(ctx, from).SetBody(in), http.MethodPost, collectionPath(collectionId, "commercialize"), &escrow.ContractStatus{})
}

func (self *Client) Support(ctx context.Context, from common.Address, collectionId uint64, amount uint64) (*response.Support, error) {
	return do(self.request(ctx, from).SetBody(&request.Support{Amount: amount}), http.MethodPost, collectionPath(collectionId, "support"), &response.Support{})
}

func (self *Client) WithdrawSupport(ctx context.Context, from common.Address, collectionId uint64) (*response.Amount, error) {
	return do(self.request(ctx, from), http.MethodPost, collectionPath(collectionId, "withdraw"), &response.Amount{})
}

func (self *Client) ClaimSFT(ctx context.Context, from common.Address, collectionId uint64) (*response.Amount, error) {
	return do(self.request(ctx, from), http.MethodPost, collectionPath(collectionId, "claim/sft"), &response.Amount{})
}

func (self *Client) ClaimBIA(ctx context.Context, from common.Address, collectionId uint64) (*response.Amount, error) {
	return do(self.request(ctx, from), http.MethodPost, collectionPath(collectionId, "claim/bia"), &response.Amount{})
}

func (self *Client) SetApprovalForAll(ctx context.Context, from common.Address, approved bool) (*response.Ok, error) {
	return do(self.request(ctx, from).SetBody(&request.SetApproval{Approved: approved}), http.MethodPost, "/v1/approvals", &response.Ok{})
}

func (self *Client) Fund(ctx context.Context, from, to common.Address, amount uint64) (*response.Balance, error) {
	return do(self.request(ctx, from).SetBody(&request.Fund{To: to, Amount: amount}), http.MethodPost, "/v1/wallet/fund", &response.Balance{})
}

func (self *Client) Approve(ctx context.Context, from common.Address, collectionId uint64) (*escrow.ApproveResult, error) {
	return do(self.request(ctx, from), http.MethodPost, fmt.Sprintf("/v1/admin/collections/%d/approve", collectionId), &escrow.ApproveResult{})
}

func (self *Client) Compact(ctx context.Context, from common.Address, collectionId uint64) (*gallery.Compaction, error) {
	return do(self.request(ctx, from), http.MethodPost, fmt.Sprintf("/v1/admin/collections/%d/compact", collectionId), &gallery.Compaction{})
}

func (self *Client) Sweep(ctx context.Context, from common.Address, collectionId uint64, to common.Address) (*response.Amount, error) {
	return do(self.request(ctx, from).SetBody(&request.Sweep{To: to}), http.MethodPost, fmt.Sprintf("/v1/admin/collections/%d/sweep", collectionId), &response.Amount{})
}

func (self *Client) SetMetadata(ctx context.Context, from common.Address, asset, uri string) (*response.Ok, error) {
	return do(self.request(ctx, from).SetBody(&request.SetMetadata{Asset: asset, URI: uri}), http.MethodPost, "/v1/admin/metadata", &response.Ok{})
}
