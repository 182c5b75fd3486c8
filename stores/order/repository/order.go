package repository

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/openmark/goapi/base/ctx"
	"github.com/openmark/goapi/base/database/mongoclient"
	"github.com/openmark/goapi/base/log"
	"github.com/openmark/goapi/domain"
	"github.com/openmark/goapi/domain/order"
	"github.com/openmark/goapi/service/query"
)

type orderRepoImpl struct {
	q query.Mongo
}

// NewOrderRepo creates the mongo backed order repo and ensures the unique
// (offerer, salt) index that backs duplicate rejection.
func NewOrderRepo(c ctx.Ctx, q query.Mongo) (order.Repo, error) {
	im := &orderRepoImpl{q}
	if err := q.EnsureIndex(c, domain.TableOrders, true,
		query.IndexField{Name: "offerer"},
		query.IndexField{Name: "salt"},
	); err != nil {
		return nil, err
	}
	if err := q.EnsureIndex(c, domain.TableOrders, true,
		query.IndexField{Name: "chainId"},
		query.IndexField{Name: "orderHash"},
	); err != nil {
		return nil, err
	}
	if err := q.EnsureIndex(c, domain.TableOrders, false,
		query.IndexField{Name: "kind"},
		query.IndexField{Name: "status"},
		query.IndexField{Name: "createdAt", Desc: true},
	); err != nil {
		return nil, err
	}
	return im, nil
}

func (im *orderRepoImpl) makeQuery(opts ...order.FindAllOptionsFunc) (bson.M, *order.FindAllOptions, error) {
	options, err := order.GetFindAllOptions(opts...)
	if err != nil {
		return nil, nil, err
	}
	qry := bson.M{}

	if options.ChainId != nil {
		qry["chainId"] = *options.ChainId
	}

	if options.OrderHash != nil {
		qry["orderHash"] = options.OrderHash.ToLower()
	}

	if options.Kind != nil {
		qry["kind"] = *options.Kind
	}

	if options.Status != nil {
		qry["status"] = *options.Status
	}

	if options.Offerer != nil {
		qry["offerer"] = options.Offerer.ToLower()
	}

	if options.Token != nil {
		token := options.Token.ToLower()
		qry["$or"] = bson.A{
			bson.M{"offer.token": token},
			bson.M{"consideration.token": token},
		}
	}

	if options.Salt != nil {
		qry["salt"] = *options.Salt
	}

	// timestamps are zero padded decimal strings, lexical compare works
	if options.EndTimeGT != nil {
		qry["endTime"] = bson.M{"$gt": fmt.Sprint(options.EndTimeGT.Unix())}
	}

	if options.StartTimeLT != nil {
		qry["startTime"] = bson.M{"$lt": fmt.Sprint(options.StartTimeLT.Unix())}
	}

	return qry, &options, nil
}

func (im *orderRepoImpl) Create(ctx ctx.Ctx, _order *order.Order) error {
	_order.LowerCase()
	if err := im.q.Insert(ctx, domain.TableOrders, _order); err != nil {
		if err == query.ErrDuplicateKey {
			return domain.ErrConflict
		}
		ctx.WithFields(log.Fields{
			"err":       err,
			"orderHash": _order.OrderHash,
		}).Error("failed to q.Insert")
		return err
	}
	return nil
}

func (im *orderRepoImpl) FindAll(ctx ctx.Ctx, opts ...order.FindAllOptionsFunc) ([]*order.Order, error) {
	qry, options, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return nil, err
	}

	offset, limit := 0, 0
	if options.Offset != nil {
		offset = int(*options.Offset)
	}
	if options.Limit != nil {
		limit = int(*options.Limit)
	}
	sort := "_id"
	if options.Sort != nil {
		sort = *options.Sort
	}

	res := []*order.Order{}
	err = im.q.Search(ctx, domain.TableOrders, offset, limit, sort, qry, &res)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}

	return res, nil
}

func (im *orderRepoImpl) Count(ctx ctx.Ctx, opts ...order.FindAllOptionsFunc) (int, error) {
	qry, _, err := im.makeQuery(opts...)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return 0, err
	}

	cnt, err := im.q.Count(ctx, domain.TableOrders, qry)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Count")
		return 0, err
	}

	return cnt, nil
}

func (im *orderRepoImpl) FindOne(ctx ctx.Ctx, id order.Id) (*order.Order, error) {
	id.OrderHash = id.OrderHash.ToLower()
	qry, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return nil, err
	}

	res := order.Order{}
	err = im.q.FindOne(ctx, domain.TableOrders, qry, &res)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.FindOne")
		return nil, err
	}

	return &res, nil
}

func (im *orderRepoImpl) UpdateStatus(ctx ctx.Ctx, id order.Id, status order.Status) error {
	id.OrderHash = id.OrderHash.ToLower()
	selector, err := mongoclient.MakeBsonM(id)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	err = im.q.Patch(ctx, domain.TableOrders, selector, bson.M{"status": status})
	if err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"err":      err,
			"selector": selector,
			"status":   status,
		}).Error("failed to q.Patch")
		return err
	}

	return nil
}
