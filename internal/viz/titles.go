package viz

import "fmt"

// Titles holds the panel titles and suptitles of both figures.
type Titles struct {
	First, Second                 [numPanels]string
	FirstSuptitle, SecondSuptitle string
}

// EnglishTitles labels figures for a model whose convolutions have c1 and
// c2 output channels.
func EnglishTitles(c1, c2 int) Titles {
	return Titles{
		First: [numPanels]string{
			"original image",
			fmt.Sprintf("kernel x%d", c1),
			fmt.Sprintf("feature map x%d", c1),
			fmt.Sprintf("after ReLu x%d", c1),
			fmt.Sprintf("after MaxPooling x%d", c1),
		},
		Second: [numPanels]string{
			fmt.Sprintf("image after first convolution x%d", c1),
			fmt.Sprintf("kernel x%d", c2),
			fmt.Sprintf("feature map x%d", c2),
			fmt.Sprintf("after ReLu x%d", c2),
			fmt.Sprintf("after MaxPooling x%d", c2),
		},
		FirstSuptitle:  "first convolution",
		SecondSuptitle: "second convolution",
	}
}

// FrenchTitles is the French variant of EnglishTitles.
func FrenchTitles(c1, c2 int) Titles {
	return Titles{
		First: [numPanels]string{
			"image original",
			fmt.Sprintf("kernel x%d", c1),
			fmt.Sprintf("carte de caractéristique x%d", c1),
			fmt.Sprintf("après ReLu x%d", c1),
			fmt.Sprintf("après MaxPooling x%d", c1),
		},
		Second: [numPanels]string{
			fmt.Sprintf("image après première convolution x%d", c1),
			fmt.Sprintf("kernel x%d", c2),
			fmt.Sprintf("carte de caractéristique x%d", c2),
			fmt.Sprintf("après ReLu x%d", c2),
			fmt.Sprintf("après MaxPooling x%d", c2),
		},
		FirstSuptitle:  "première convolution",
		SecondSuptitle: "deuxième convolution",
	}
}
