package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
	repo "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"

	"golang.org/x/text/unicode/norm"
)

const maxImagesPerListing = 10

type ProductUsecase struct {
	tx        repo.TransactionManager
	products  repo.ProductRepository
	inventory repo.InventoryRepository
	users     repo.UserRepository
}

// DI
func NewProductUsecase(
	tx repo.TransactionManager,
	products repo.ProductRepository,
	inventory repo.InventoryRepository,
	users repo.UserRepository,
) *ProductUsecase {
	return &ProductUsecase{
		tx:        tx,
		products:  products,
		inventory: inventory,
		users:     users,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page      int
	Limit     int
	Q         string
	Category  string
	Campus    string
	Condition string
	SellerID  *int64
	Sort      string
}

type ProductListOutput struct {
	Items []ProductOutput `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// 出品 + 在庫（statusは在庫から決める）
type ProductOutput struct {
	model.Product
	Inventory model.InventorySnapshot `json:"inventory"`
}

// 埋め込んだProductのMarshalJSONだとinventoryが落ちるので自前で組む
func (o ProductOutput) MarshalJSON() ([]byte, error) {
	type plain model.Product
	return json.Marshal(struct {
		plain
		Price     string                  `json:"price"`
		Inventory model.InventorySnapshot `json:"inventory"`
	}{plain(o.Product), model.FormatMoney(o.Product.Price), o.Inventory})
}

// 作成・更新の入力（priceは10進数の文字列）
type ProductInput struct {
	Title       string
	Description string
	Price       string
	Category    string
	Condition   string
	Images      []string
	Campus      string
	Quantity    int64
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, errInvalid("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, errInvalid("invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, errInvalid("q too long")
	}
	if in.Condition != "" && !model.ProductCondition(in.Condition).Valid() {
		return ProductListOutput{}, errInvalid("invalid condition")
	}
	switch in.Sort {
	case "", "new", "oldest", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, errInvalid("invalid sort")
	}

	items, total, err := u.products.ListPublic(ctx, repo.ProductListQuery{
		Page:      in.Page,
		Limit:     in.Limit,
		Q:         NormalizeSearch(in.Q),
		Category:  strings.TrimSpace(in.Category),
		Campus:    NormalizeCampus(in.Campus),
		Condition: in.Condition,
		SellerID:  in.SellerID,
		Sort:      in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, errDB()
	}

	outs := make([]ProductOutput, 0, len(items))
	for _, p := range items {
		out, err := u.withInventory(ctx, p)
		if err != nil {
			return ProductListOutput{}, errDB()
		}
		outs = append(outs, out)
	}

	return ProductListOutput{
		Items: outs,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (ProductOutput, error) {
	if productID <= 0 {
		return ProductOutput{}, errInvalid("invalid product id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, errNotFound()
	}
	if err != nil {
		return ProductOutput{}, errDB()
	}

	out, err := u.withInventory(ctx, p)
	if err != nil {
		return ProductOutput{}, errDB()
	}
	return out, nil
}

// 出品者は呼び出したユーザー本人
func (u *ProductUsecase) CreateProduct(ctx context.Context, sellerID int64, in ProductInput) (ProductOutput, error) {
	if sellerID <= 0 {
		return ProductOutput{}, errUnauthorized()
	}
	p, err := buildProduct(in)
	if err != nil {
		return ProductOutput{}, err
	}

	seller, err := u.users.FindByID(ctx, sellerID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, errUnauthorized()
	}
	if err != nil {
		return ProductOutput{}, errDB()
	}

	p.SellerID = seller.ID
	p.SellerName = seller.Name
	p.SellerEmail = seller.Email
	p.Status = model.ListingAvailable
	if p.Quantity == 0 {
		p.Status = model.ListingSold
	}

	created, err := u.products.Create(ctx, p)
	if err != nil {
		return ProductOutput{}, errDB()
	}
	return ProductOutput{
		Product:   created,
		Inventory: model.NewInventorySnapshot(created.ID, created.Quantity, 0, 0),
	}, nil
}

// 出品者本人のみ。数量が変わったら調整履歴を残す。
func (u *ProductUsecase) UpdateProduct(ctx context.Context, actorID int64, productID int64, in ProductInput) (ProductOutput, error) {
	if actorID <= 0 {
		return ProductOutput{}, errUnauthorized()
	}
	if productID <= 0 {
		return ProductOutput{}, errInvalid("invalid product id")
	}
	next, err := buildProduct(in)
	if err != nil {
		return ProductOutput{}, err
	}

	var out ProductOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cur, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return errDB()
		}
		if cur.SellerID != actorID {
			return errForbidden()
		}

		updated := cur
		updated.Title = next.Title
		updated.Description = next.Description
		updated.Price = next.Price
		updated.Category = next.Category
		updated.Condition = next.Condition
		updated.Images = next.Images
		updated.Campus = next.Campus
		updated.Quantity = next.Quantity

		snap, err := reconcile(ctx, r.Inventory(), updated)
		if err != nil {
			return errDB()
		}
		updated.Status = snap.ListingStatus()

		if err := r.Products().Update(ctx, updated); err != nil {
			return errDB()
		}

		if delta := updated.Quantity - cur.Quantity; delta != 0 {
			if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
				ProductID:   productID,
				ActorUserID: actorID,
				Delta:       delta,
				Reason:      "listing updated",
			}); err != nil {
				return errDB()
			}
		}

		out = ProductOutput{Product: updated, Inventory: snap}
		return nil
	})
	if err != nil {
		return ProductOutput{}, err
	}
	return out, nil
}

// 出品者本人か管理者。管理者が他人の出品を消したら監査ログ。
func (u *ProductUsecase) DeleteProduct(ctx context.Context, actor Actor, productID int64) error {
	if actor.UserID <= 0 {
		return errUnauthorized()
	}
	if productID <= 0 {
		return errInvalid("invalid product id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return errDB()
		}

		owner := p.SellerID == actor.UserID
		if !owner && !actor.IsAdmin() {
			return errForbidden()
		}

		if err := r.Products().SoftDelete(ctx, productID, actor.UserID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound()
			}
			return errDB()
		}

		if owner {
			return nil
		}
		before, _ := json.Marshal(map[string]interface{}{"title": p.Title, "seller_id": p.SellerID})
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actor.UserID,
			Action:       model.AuditActionDeleteProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   string(before),
			AfterJSON:    `{"deleted":true}`,
		}); err != nil {
			return errDB()
		}
		return nil
	})
}

func (u *ProductUsecase) withInventory(ctx context.Context, p model.Product) (ProductOutput, error) {
	snap, err := reconcile(ctx, u.inventory, p)
	if err != nil {
		return ProductOutput{}, err
	}
	p.Status = snap.ListingStatus()
	return ProductOutput{Product: p, Inventory: snap}, nil
}

func buildProduct(in ProductInput) (model.Product, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > 255 {
		return model.Product{}, errInvalid("invalid title")
	}
	price, err := model.ParseMoney(in.Price)
	if err != nil {
		return model.Product{}, errInvalid("invalid price")
	}
	cond := model.ProductCondition(strings.TrimSpace(in.Condition))
	if !cond.Valid() {
		return model.Product{}, errInvalid("invalid condition")
	}
	if in.Quantity < 0 {
		return model.Product{}, errInvalid("quantity must be >= 0")
	}
	if len(in.Images) > maxImagesPerListing {
		return model.Product{}, errInvalid("too many images")
	}

	images := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}

	return model.Product{
		Title:       norm.NFC.String(title),
		Description: norm.NFC.String(strings.TrimSpace(in.Description)),
		Price:       price,
		Category:    strings.TrimSpace(in.Category),
		Condition:   cond,
		Images:      images,
		Campus:      NormalizeCampus(in.Campus),
		Quantity:    in.Quantity,
	}, nil
}

// 全角・半角や大文字小文字の違いを吸収する
func NormalizeSearch(q string) string {
	return model.SearchKey(q)
}

// キャンパス名は空白を詰めてNFKC
func NormalizeCampus(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}
