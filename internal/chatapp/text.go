package chatapp

import "fmt"

func joinedText(id int64) string {
	return fmt.Sprintf("client %d joined", id)
}

func leftText(id int64) string {
	return fmt.Sprintf("client %d left", id)
}
