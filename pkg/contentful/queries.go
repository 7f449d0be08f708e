package contentful

import "fmt"

// Page size limits imposed by GraphQL query complexity costs on the
// upstream API: 100 bare SKUs or 10 full product records per query.
const (
	skuPageSize     = 100
	productPageSize = 10
)

// skipFor computes the skip offset for a 1-based page number.
func skipFor(pageSize, page int) int {
	if page <= 1 {
		return 0
	}
	return pageSize * (page - 1)
}

const productFields = `
      sys {
        id
      }
      title
      sku
      model
      price
      releaseDate
      mainImage {
        url
      }
      itemsInStock`

func productPageQuery(page int) string {
	return fmt.Sprintf(`{
  productCollection(limit: %d, skip: %d, order: releaseDate_DESC) {
    total
    items {%s
    }
  }
}`, productPageSize, skipFor(productPageSize, page), productFields)
}

func skuPageQuery(page int) string {
	return fmt.Sprintf(`{
  productCollection(limit: %d, skip: %d, order: releaseDate_DESC) {
    total
    items {
      sku
    }
  }
}`, skuPageSize, skipFor(skuPageSize, page))
}

func productBySKUQuery(sku string, preview bool) string {
	return fmt.Sprintf(`{
  productCollection(limit: 1, where: {sku: %q}, preview: %t) {
    total
    items {
      sys {
        id
      }
      title
      description
      price
      sku
      model
      releaseDate
      mainImage {
        url
      }
      itemsInStock
    }
  }
}`, sku, preview)
}

func summaryPageQuery(pageSize, page int) string {
	return fmt.Sprintf(`{
  productCollection(limit: %d, skip: %d, order: releaseDate_DESC) {
    items {
      sys {
        id
      }
      releaseDate
      title
      price
      sku
      model
      mainImage {
        url
      }
    }
  }
}`, pageSize, skipFor(pageSize, page))
}

func recentProductsQuery(size int) string {
	return fmt.Sprintf(`{
  productCollection(limit: %d, order: releaseDate_DESC) {
    items {
      sys {
        id
      }
      releaseDate
      title
      sku
      model
      price
    }
  }
}`, size)
}

const totalProductsQuery = `{
  productCollection {
    total
  }
}`

func pageContentQuery(slug string, preview bool) string {
	return fmt.Sprintf(`{
  pageContentCollection(limit: 1, where: {slug: %q}, preview: %t) {
    items {
      sys {
        id
      }
      heroBanner {
        headline
        subHeading
        internalLink
        externalLink
        ctaText
        image {
          url
          title
          description
          width
          height
        }
      }
      title
      description
      slug
      body {
        json
      }
    }
  }
}`, slug, preview)
}
