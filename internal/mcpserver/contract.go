package mcpserver

// GraphSchemaContract describes the property graph and the recommendation
// semantics for LLM consumers calling the raido tools.
const GraphSchemaContract = `# Raido Graph Schema

Raido serves content-based recipe recommendations over a property graph.

## Nodes

- **User** — identified by an opaque string id.
- **Recipe** — id, name, a 7-element nutrition vector
  [calories, totalFat, sugar, sodium, protein, saturatedFat, carbs]
  (percent daily value except calories), and a tag list.
- **Ingredient** — identified by name only.

## Relationships

- **(User)-[SUBMITTED {date}]->(Recipe)** — the user authored the recipe.
- **(User)-[REVIEWED {rating, date}]->(Recipe)** — the user rated the
  recipe on a 0..5 integer scale.
- **(Recipe)-[WITH_INGREDIENTS]->(Ingredient)** — membership edges.

## Recommendation semantics

- A **positive interaction** is a review rated 4 or higher, or any
  submission.
- Favorite ingredients and top tags are the names whose occurrence count
  across positive interactions reaches an adaptive percentile threshold.
- Candidates are unseen recipes (never recipes the user already submitted
  or reviewed) matching the requested axes: ingredients, tags, nutrition.
  Axes combine with logical AND.
- Per-axis relevance is (matched / total) * ln(1 + total); multi-axis
  scores are fused by weighted summation. Nutrition is a hard filter and
  never contributes to the score.
- An empty recommendation list is a valid outcome meaning no recipe
  qualifies, not an error.
`
