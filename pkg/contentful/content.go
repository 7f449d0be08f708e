package contentful

import (
	"context"
	"encoding/json"
	"fmt"

	"gitlab.connectwisedev.com/storefront-service/models"
)

type productCollection struct {
	Total int              `json:"total"`
	Items []models.Product `json:"items"`
}

func decodeData[T any](data json.RawMessage) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%w: decoding data: %v", ErrUpstreamData, err)
	}
	return out, nil
}

// PageContentBySlug fetches the single page-content entry matching slug.
// Absence is a valid outcome: the result is nil with no error.
func (c *Client) PageContentBySlug(ctx context.Context, slug string, preview bool) (*models.PageContent, error) {
	data, err := c.execute(ctx, pageContentQuery(slug, preview), preview)
	if err != nil {
		return nil, err
	}

	out, err := decodeData[struct {
		PageContentCollection struct {
			Items []models.PageContent `json:"items"`
		} `json:"pageContentCollection"`
	}](data)
	if err != nil {
		return nil, err
	}

	items := out.PageContentCollection.Items
	if len(items) == 0 {
		return nil, nil
	}
	return &items[len(items)-1], nil
}

// PaginatedProducts fetches one page of full product records ordered by
// release date descending. Pages are 1-based and hold up to 10 records.
func (c *Client) PaginatedProducts(ctx context.Context, page int) (Page[models.Product], error) {
	data, err := c.execute(ctx, productPageQuery(page), false)
	if err != nil {
		return Page[models.Product]{}, err
	}

	out, err := decodeData[struct {
		ProductCollection productCollection `json:"productCollection"`
	}](data)
	if err != nil {
		return Page[models.Product]{}, err
	}

	return Page[models.Product]{
		Items: out.ProductCollection.Items,
		Total: out.ProductCollection.Total,
	}, nil
}

// AllProducts fetches every product in the collection, page by page.
func (c *Client) AllProducts(ctx context.Context) ([]models.Product, error) {
	return collectAll(func(page int) (Page[models.Product], error) {
		return c.PaginatedProducts(ctx, page)
	})
}

// PaginatedSKUs fetches one page of bare product SKUs ordered by release
// date descending. Pages are 1-based and hold up to 100 SKUs.
func (c *Client) PaginatedSKUs(ctx context.Context, page int) (Page[string], error) {
	data, err := c.execute(ctx, skuPageQuery(page), false)
	if err != nil {
		return Page[string]{}, err
	}

	out, err := decodeData[struct {
		ProductCollection struct {
			Total int `json:"total"`
			Items []struct {
				SKU string `json:"sku"`
			} `json:"items"`
		} `json:"productCollection"`
	}](data)
	if err != nil {
		return Page[string]{}, err
	}

	skus := make([]string, 0, len(out.ProductCollection.Items))
	for _, item := range out.ProductCollection.Items {
		skus = append(skus, item.SKU)
	}
	return Page[string]{Items: skus, Total: out.ProductCollection.Total}, nil
}

// AllSKUs fetches every product SKU in the collection, page by page.
// Callers use the result to enumerate product routes.
func (c *Client) AllSKUs(ctx context.Context) ([]string, error) {
	return collectAll(func(page int) (Page[string], error) {
		return c.PaginatedSKUs(ctx, page)
	})
}

// ProductBySKU fetches the single product matching sku. Absence is a
// valid outcome: the result is nil with no error, and callers map it to
// a not-found response.
func (c *Client) ProductBySKU(ctx context.Context, sku string, preview bool) (*models.Product, error) {
	data, err := c.execute(ctx, productBySKUQuery(sku, preview), preview)
	if err != nil {
		return nil, err
	}

	out, err := decodeData[struct {
		ProductCollection productCollection `json:"productCollection"`
	}](data)
	if err != nil {
		return nil, err
	}

	items := out.ProductCollection.Items
	if len(items) == 0 {
		return nil, nil
	}
	return &items[len(items)-1], nil
}

// PaginatedProductSummaries fetches one page of product summaries for
// the catalog view. The page size comes from configuration and no total
// is reported.
func (c *Client) PaginatedProductSummaries(ctx context.Context, page int) ([]models.ProductSummary, error) {
	data, err := c.execute(ctx, summaryPageQuery(c.summaryPageSize, page), false)
	if err != nil {
		return nil, err
	}

	out, err := decodeData[struct {
		ProductCollection struct {
			Items []models.ProductSummary `json:"items"`
		} `json:"productCollection"`
	}](data)
	if err != nil {
		return nil, err
	}
	return out.ProductCollection.Items, nil
}

// RecentProducts fetches a fixed-size list of the most recently released
// products. Purposefully unpaginated.
func (c *Client) RecentProducts(ctx context.Context) ([]models.ProductSummary, error) {
	data, err := c.execute(ctx, recentProductsQuery(c.recentListSize), false)
	if err != nil {
		return nil, err
	}

	out, err := decodeData[struct {
		ProductCollection struct {
			Items []models.ProductSummary `json:"items"`
		} `json:"productCollection"`
	}](data)
	if err != nil {
		return nil, err
	}
	return out.ProductCollection.Items, nil
}

// TotalProducts returns the total number of products in the collection,
// or 0 if the upstream omits the field.
func (c *Client) TotalProducts(ctx context.Context) (int, error) {
	data, err := c.execute(ctx, totalProductsQuery, false)
	if err != nil {
		return 0, err
	}

	out, err := decodeData[struct {
		ProductCollection *struct {
			Total int `json:"total"`
		} `json:"productCollection"`
	}](data)
	if err != nil {
		return 0, err
	}
	if out.ProductCollection == nil {
		return 0, nil
	}
	return out.ProductCollection.Total, nil
}
