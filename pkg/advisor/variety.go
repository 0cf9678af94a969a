package advisor

import (
	"fmt"
	"strings"
)

var varietyDescriptions = map[string]string{
	"Cabernet Sauvignon": "A robust red grape variety known for its deep color, full body, and structured tannins. Thrives in moderate to warm climates.",
	"Chardonnay":         "A versatile white grape that produces wines ranging from crisp and mineral-driven to rich and buttery. Adaptable to various climates.",
	"Pinot Noir":         "A delicate red variety that produces elegant wines with red fruit flavors. Prefers cooler climates with moderate sunlight.",
	"Bangalore Blue":     "A South Indian variety of Concord grapes, known for its sweet, musky flavor. Well-adapted to tropical conditions.",
}

var growingRecommendations = map[string]string{
	"Cabernet Sauvignon": "Plant in well-draining soils with full sun exposure. Requires regular pruning to control vigor and yield. Water moderately and apply balanced fertilization.",
	"Chardonnay":         "Plant in limestone-rich soils when possible. Moderate water needs with good drainage. Manage canopy to control sun exposure based on desired wine style.",
	"Pinot Noir":         "Requires careful site selection with good drainage and moderate temperatures. Sensitive to wind and frost; consider protection if needed. Careful canopy management is essential.",
	"Bangalore Blue":     "Grows well in tropical and subtropical climates. Plant in well-draining loamy soil with regular water during growing season. Trellising helps with air circulation and managing the vigorous growth.",
}

var varietyRecommendations = map[string]string{
	"Thompson Seedless": "Thompson Seedless grapes thrive in warm, dry climates with well-drained soil. Focus on proper trellis training and regular pruning to maximize yields. As climate changes, consider increased water management and shade protection during extreme heat periods. Common pests include powdery mildew and spider mites - regular monitoring and preventive spraying with copper-based fungicides are recommended.",
	"Flame Seedless":    "Flame Seedless requires consistent sunlight and warm temperatures. Pay special attention to irrigation during fruit development. With warming climates, ensure proper canopy management to protect fruits from sunburn. Disease prevention should focus on downy mildew and phylloxera control through cultural practices and resistant rootstocks.",
	"Crimson Seedless":  "Crimson Seedless benefits from moderate temperatures and regular thinning to produce large, high-quality clusters. Future climate conditions may require earlier harvesting dates. Monitor closely for pierce's disease and leafroll virus, especially in warmer regions. Preventative measures include vector control and virus-tested planting material.",
	"Concord":           "Concord grapes are disease-resistant but require cold winters for proper dormancy. Focus on balanced pruning and good air circulation. Climate change may affect winter chill hours - consider planting on north-facing slopes in warmer regions. Black rot and anthracnose can be issues - maintain clean vineyards and apply protective sprays before rain events.",
	"Moon Drops":        "Moon Drops grapes need support for their elongated fruits. Ensure proper trellis systems and cluster thinning for best results. This variety may face challenges with irregular ripening in fluctuating future climates. Preventive measures should include proper canopy management and regulated deficit irrigation during certain growth stages.",
	"Black Corinth":     "Black Corinth (Zante Currant) grapes need hot, dry conditions and produce small berries often used for drying. Climate warming may actually benefit this heat-loving variety, but increased pest pressure is likely. Implement robust IPM strategies focusing on early detection and biological controls where possible.",
	"Red Globe":         "Red Globe produces large berries that require significant thinning and cluster management for best quality. This variety is particularly susceptible to extreme weather fluctuations expected with climate change. Preventive strategies should include windbreaks, shade cloth during heat waves, and excellent drainage systems to manage heavy rainfall events.",
	"Autumn Royal":      "Autumn Royal benefits from extended growing seasons. Maintain adequate potassium levels for proper fruit coloration. Future climate projections indicate potential for earlier bud break, requiring frost protection systems. Focus on preventing bunch rot through proper canopy management and timely fungicide applications in humid conditions.",
	"Sultana":           "Sultana (Thompson Seedless) grapes for raisin production need hot, dry conditions during ripening and harvest. Climate change may increase drought stress - implement water-efficient irrigation systems. Powdery mildew is a major concern; maintain good air circulation and apply preventive fungicides during susceptible growth stages.",
}

const (
	defaultDescription    = "A grape variety used in wine production."
	defaultGrowingAdvice  = "Plant in suitable soil with proper drainage and appropriate climate conditions for this variety."
	defaultRecommendation = "The %s variety thrives with proper irrigation, good sunlight exposure, and regular monitoring for pests and diseases. In changing climate conditions, consider implementing water conservation techniques and heat mitigation strategies. Regular scouting for pests and preventive spraying are essential practices."
)

// VarietyDescription returns a short description of a wine grape variety.
// Names are matched exactly.
func VarietyDescription(name string) string {
	if d, ok := varietyDescriptions[name]; ok {
		return d
	}
	return defaultDescription
}

// GrowingRecommendations returns vineyard management advice for a variety.
func GrowingRecommendations(name string) string {
	if r, ok := growingRecommendations[name]; ok {
		return r
	}
	return defaultGrowingAdvice
}

// VarietyRecommendation answers a grower's question about a variety in a
// location. The first matching keyword group in query appends one
// location-specific paragraph: rain, then pests, then climate.
func VarietyRecommendation(variety, location, query string) string {
	base, ok := varietyRecommendations[variety]
	if !ok {
		base = fmt.Sprintf(defaultRecommendation, variety)
	}

	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "rain"):
		return fmt.Sprintf("%s In %s, ensure proper drainage during rainy periods to prevent root diseases. Consider cover crops on vineyard floors to prevent erosion during heavy rainfall events.", base, location)
	case strings.Contains(q, "pest"), strings.Contains(q, "disease"):
		return fmt.Sprintf("%s Common pests in %s include powdery mildew, downy mildew, and grape leafhoppers. Preventive measures include proper vineyard sanitation, maintaining open canopies for air circulation, and strategic application of appropriate fungicides and insecticides according to local IPM guidelines.", base, location)
	case strings.Contains(q, "climate"), strings.Contains(q, "future"):
		return fmt.Sprintf("%s Climate projections for %s suggest increasing temperatures and more variable precipitation patterns. Consider row orientation to minimize afternoon sun exposure, install efficient irrigation systems, and select clones that tolerate heat stress. Diversifying grape varieties across your vineyard can also reduce climate-related risks.", base, location)
	}
	return base
}
