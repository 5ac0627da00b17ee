package shopify

import (
	"fmt"
	"strings"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
)

// metafieldIdentifiers lists every metafield the catalogue reads.
var metafieldIdentifiers = func() string {
	keys := []string{
		domain.MetafieldDepartment,
		domain.MetafieldMeatType,
		domain.MetafieldCutFamily,
		domain.MetafieldOccasion,
		domain.MetafieldBulkType,
		domain.MetafieldDeliType,
		domain.MetafieldSpiceFamily,
		domain.MetafieldBraaiGearFamily,
		domain.MetafieldGroceryFamily,
		domain.MetafieldPricePerKg,
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, fmt.Sprintf(`{namespace: %q, key: %q}`, domain.MetafieldNamespace, k))
	}
	return "[" + strings.Join(ids, ", ") + "]"
}()

const moneyFields = `amount currencyCode`

var productsQuery = `
query Products($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    pageInfo { hasNextPage endCursor }
    nodes {
      id
      handle
      title
      description
      productType
      vendor
      tags
      createdAt
      availableForSale
      featuredImage { url altText }
      images(first: 5) { nodes { url altText } }
      priceRange {
        minVariantPrice { ` + moneyFields + ` }
        maxVariantPrice { ` + moneyFields + ` }
      }
      collections(first: 20) { nodes { handle } }
      variants(first: 50) {
        nodes {
          id
          title
          sku
          availableForSale
          price { ` + moneyFields + ` }
          compareAtPrice { ` + moneyFields + ` }
          weight
          weightUnit
        }
      }
      metafields(identifiers: ` + metafieldIdentifiers + `) { key value }
    }
  }
}`

var cartFragment = `
fragment CartFields on Cart {
  id
  checkoutUrl
  totalQuantity
  updatedAt
  cost {
    subtotalAmount { ` + moneyFields + ` }
    totalAmount { ` + moneyFields + ` }
  }
  lines(first: 100) {
    nodes {
      id
      quantity
      attributes { key value }
      merchandise {
        ... on ProductVariant {
          id
          title
          weight
          weightUnit
          price { ` + moneyFields + ` }
          image { url altText }
          product {
            id
            handle
            title
            featuredImage { url altText }
            pricePerKg: metafield(namespace: "` + domain.MetafieldNamespace + `", key: "` + domain.MetafieldPricePerKg + `") { value }
          }
        }
      }
    }
  }
}`

const userErrorFields = `userErrors { field message code }`

var (
	cartQuery = `
query Cart($id: ID!) {
  cart(id: $id) { ...CartFields }
}` + cartFragment

	cartCreateMutation = `
mutation CartCreate($input: CartInput!) {
  cartCreate(input: $input) { cart { ...CartFields } ` + userErrorFields + ` }
}` + cartFragment

	cartLinesAddMutation = `
mutation CartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) { cart { ...CartFields } ` + userErrorFields + ` }
}` + cartFragment

	cartLinesUpdateMutation = `
mutation CartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) { cart { ...CartFields } ` + userErrorFields + ` }
}` + cartFragment

	cartLinesRemoveMutation = `
mutation CartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) { cart { ...CartFields } ` + userErrorFields + ` }
}` + cartFragment
)

const shopQuery = `query Shop { shop { name } }`
